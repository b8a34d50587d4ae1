package report

import "encoding/json"

type jsonRenderer struct{}

func (r *jsonRenderer) Render(rep *Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}
