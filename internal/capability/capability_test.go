package capability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApply_Defaults(t *testing.T) {
	in := `{ CapabilityName: "Thermal Analysis" },
{ Capability: "Chromatography", EquipmentName: "HPLC" },
{ Capability: "Microscopy" },
{ CapabilityName: "Physical Testing" },`
	want := `{ CapabilityName: "Microstructure" },
{ Capability: "Small molecules", EquipmentName: "HPLC" },
{ Capability: "Imaging" },
{ CapabilityName: "Mesostructure" },`

	got := Apply(in, Defaults())
	if diff := cmp.Diff(want, got.Text); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
	if got.Total() != 4 {
		t.Errorf("Total() = %d, want 4", got.Total())
	}
}

func TestApply_CountsPerMapping(t *testing.T) {
	in := strings.Repeat(`Capability: "Spectroscopy"`+"\n", 3)
	got := Apply(in, Defaults())
	for _, c := range got.Counts {
		want := 0
		if c.Old == `Capability: "Spectroscopy"` {
			want = 3
		}
		if c.Replacements != want {
			t.Errorf("%q replacements = %d, want %d", c.Old, c.Replacements, want)
		}
	}
}

func TestApply_Sequential(t *testing.T) {
	mappings := []Mapping{{Old: "a", New: "b"}, {Old: "b", New: "c"}}
	got := Apply("a b", mappings)
	if got.Text != "c c" {
		t.Errorf("Apply = %q, want %q", got.Text, "c c")
	}
}

func TestApply_PassThrough(t *testing.T) {
	in := `{ Capability: "Rheology" }`
	got := Apply(in, Defaults())
	if got.Text != in {
		t.Errorf("unrelated text modified: %q", got.Text)
	}
	if got.Total() != 0 {
		t.Errorf("Total() = %d, want 0", got.Total())
	}
}

func TestLoadMappings_Valid(t *testing.T) {
	path := writeTempFile(t, "map.yaml", `mappings:
  - old: 'Capability: "Rheology"'
    new: 'Capability: "Mesostructure"'
  - old: foo
    new: ""
`)
	got, err := LoadMappings(path)
	if err != nil {
		t.Fatalf("LoadMappings: %v", err)
	}
	want := []Mapping{
		{Old: `Capability: "Rheology"`, New: `Capability: "Mesostructure"`},
		{Old: "foo", New: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mappings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMappings_EmptyOldRejected(t *testing.T) {
	path := writeTempFile(t, "map.yaml", "mappings:\n  - old: \"\"\n    new: x\n")
	if _, err := LoadMappings(path); err == nil {
		t.Error("expected error for empty old, got nil")
	}
}

func TestLoadMappings_NoMappings(t *testing.T) {
	path := writeTempFile(t, "map.yaml", "mappings: []\n")
	if _, err := LoadMappings(path); err == nil {
		t.Error("expected error for empty table, got nil")
	}
}

func TestLoadMappings_BadYAML(t *testing.T) {
	path := writeTempFile(t, "map.yaml", "mappings: [unterminated\n")
	if _, err := LoadMappings(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestLoadMappings_MissingFile(t *testing.T) {
	if _, err := LoadMappings("/nonexistent/map.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
