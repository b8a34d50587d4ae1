package report

import "fmt"

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "md" (default), "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "md", "":
		return &markdownRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are md, json", format)
	}
}
