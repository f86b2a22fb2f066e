package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cauchy/internal/experiment"
)

type ExportData struct {
	Problem string               `json:"problem"`
	Solver  string               `json:"solver"`
	Numeric string               `json:"numeric"`
	Step    float64              `json:"step"`
	TMax    float64              `json:"t_max"`
	Samples int                  `json:"samples"`
	Times   []float64            `json:"times"`
	Series  map[string][]float64 `json:"series"`
	Metrics map[string]float64   `json:"metrics,omitempty"`
}

func newExportData(r *experiment.Report) ExportData {
	data := ExportData{
		Problem: r.Problem,
		Solver:  r.Solver,
		Numeric: r.Numeric,
		Step:    r.Step,
		TMax:    r.TMax,
		Samples: len(r.Time),
		Times:   r.Time,
		Series:  make(map[string][]float64, len(r.Labels)),
	}
	for i, label := range r.Labels {
		data.Series[label] = r.Columns[i]
	}
	if ms := finite(r.Metrics); len(ms) > 0 {
		data.Metrics = make(map[string]float64, len(ms))
		for _, m := range ms {
			data.Metrics[m.Name] = m.Value
		}
	}
	return data
}

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r *experiment.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(r))
}

func ExportJSON(path string, r *experiment.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, r)
}
