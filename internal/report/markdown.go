package report

import (
	"bytes"
	"fmt"
	"text/template"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Parse(`# mockfix {{ .Command }}

**Input:** {{ .Input.Path }} ({{ .Input.Hash }})
**Output:** {{ .Output.Path }} ({{ .Output.Hash }})
**Changed:** {{ .Summary.Changed }} | **Skipped:** {{ .Summary.Skipped }}{{ if .Summary.Unchanged }} | file content unchanged{{ end }}
{{ if .Frequencies }}
## Frequencies

| Line | Frequency | Months |
|---|---|---|
{{ range .Frequencies }}| {{ .Line }} | {{ .Raw }} | {{ if .Skipped }}skipped{{ else }}{{ .Months }}{{ end }} |
{{ end }}{{ end }}{{ if .Renames }}
## Renames

| From | To | Count |
|---|---|---|
{{ range .Renames }}| ` + "`{{ .Old }}`" + ` | ` + "`{{ .New }}`" + ` | {{ .Replacements }} |
{{ end }}{{ end }}{{ if .PatchFile }}
Patch written to {{ .PatchFile }}
{{ end }}
---
*{{ .Tool }} {{ .Version }}*
`))

func (r *markdownRenderer) Render(rep *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, rep); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
