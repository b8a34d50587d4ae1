package report

import (
	"github.com/dshills/mockfix/internal/capability"
	"github.com/dshills/mockfix/internal/frequency"
)

// Report is the summary of a single rewrite run.
type Report struct {
	Tool        string                 `json:"tool"`
	Version     string                 `json:"version"`
	Command     string                 `json:"command"`
	Input       FileRef                `json:"input"`
	Output      FileRef                `json:"output"`
	Summary     Summary                `json:"summary"`
	Frequencies []frequency.Occurrence `json:"frequencies,omitempty"`
	Renames     []capability.Count     `json:"renames,omitempty"`
	PatchFile   string                 `json:"patch_file,omitempty"`
}

// FileRef identifies a file and the hash of its content at the time of the run.
type FileRef struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Summary holds the change counts.
type Summary struct {
	Changed   int  `json:"changed"`
	Skipped   int  `json:"skipped"`
	Unchanged bool `json:"unchanged"` // output content equals input content
}
