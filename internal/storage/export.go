package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/survlab/internal/workflow"
)

type ExportCurve struct {
	Strategy string    `json:"strategy"`
	Survival []float64 `json:"survival"`
	Lower    []float64 `json:"lower,omitempty"`
	Upper    []float64 `json:"upper,omitempty"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	XLabel string        `json:"x_label"`
	YLabel string        `json:"y_label"`
	Time   []float64     `json:"time"`
	Curves []ExportCurve `json:"curves"`
}

// ExportJSON writes a run's metadata and curves as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, fig *workflow.Figure) error {
	data := ExportData{
		Run:    meta,
		XLabel: workflow.XLabel,
		YLabel: workflow.YLabel,
	}
	if fig != nil {
		data.XLabel, data.YLabel = fig.XLabel, fig.YLabel
		for i, c := range fig.Curves {
			if i == 0 {
				data.Time = c.Time
			}
			data.Curves = append(data.Curves, ExportCurve{
				Strategy: c.Name(),
				Survival: c.Survival,
				Lower:    c.Lower,
				Upper:    c.Upper,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
