package capability

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping is a single literal rename. Old is replaced by New everywhere.
type Mapping struct {
	Old string `yaml:"old" json:"old"`
	New string `yaml:"new" json:"new"`
}

// Count records how many times a mapping fired.
type Count struct {
	Mapping
	Replacements int `json:"replacements"`
}

// Result holds the renamed text and per-mapping counts in application order.
type Result struct {
	Text   string
	Counts []Count
}

// Total returns the sum of all replacements.
func (r Result) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c.Replacements
	}
	return n
}

// Defaults returns the built-in capability rename table.
func Defaults() []Mapping {
	return []Mapping{
		{`CapabilityName: "Thermal Analysis"`, `CapabilityName: "Microstructure"`},
		{`CapabilityName: "Microscopy"`, `CapabilityName: "Imaging"`},
		{`CapabilityName: "Spectroscopy"`, `CapabilityName: "Small molecules"`},
		{`Capability: "Spectroscopy"`, `Capability: "Small molecules"`},
		{`CapabilityName: "Chromatography"`, `CapabilityName: "Small molecules"`},
		{`Capability: "Chromatography"`, `Capability: "Small molecules"`},
		{`CapabilityName: "Mechanical Testing"`, `CapabilityName: "Mesostructure"`},
		{`Capability: "Mechanical Testing"`, `Capability: "Mesostructure"`},
		{`CapabilityName: "Physical Testing"`, `CapabilityName: "Mesostructure"`},
		{`Capability: "Physical Testing"`, `Capability: "Mesostructure"`},
		{`Capability: "Thermal Analysis"`, `Capability: "Microstructure"`},
		{`Capability: "Microscopy"`, `Capability: "Imaging"`},
	}
}

// mappingFile is the on-disk YAML layout.
type mappingFile struct {
	Mappings []Mapping `yaml:"mappings"`
}

// LoadMappings reads a YAML rename table of the form:
//
//	mappings:
//	  - old: 'Capability: "Microscopy"'
//	    new: 'Capability: "Imaging"'
func LoadMappings(path string) ([]Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings file: %w", err)
	}
	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing mappings file %q: %w", path, err)
	}
	if len(mf.Mappings) == 0 {
		return nil, fmt.Errorf("mappings file %q defines no mappings", path)
	}
	for i, m := range mf.Mappings {
		if m.Old == "" {
			return nil, fmt.Errorf("mappings[%d]: old is required", i)
		}
	}
	return mf.Mappings, nil
}

// Apply runs each mapping over text in order. Later mappings see the output
// of earlier ones.
func Apply(text string, mappings []Mapping) Result {
	counts := make([]Count, 0, len(mappings))
	for _, m := range mappings {
		n := 0
		if m.Old != "" {
			n = strings.Count(text, m.Old)
		}
		if n > 0 {
			text = strings.ReplaceAll(text, m.Old, m.New)
		}
		counts = append(counts, Count{Mapping: m, Replacements: n})
	}
	return Result{Text: text, Counts: counts}
}
