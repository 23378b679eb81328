package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/molsim/internal/sim"
)

// ExportData is the JSON form of a run. Non-finite values are written as
// strings.
type ExportData struct {
	Run         RunMetadata      `json:"run"`
	Samples     int              `json:"samples"`
	Times       []Float          `json:"times"`
	Potential   []Float          `json:"potential"`
	Kinetic     []Float          `json:"kinetic"`
	Total       []Float          `json:"total"`
	Temperature []Float          `json:"temperature"`
	Metrics     map[string]Float `json:"metrics"`
}

func newExportData(meta RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		Run:         meta,
		Samples:     len(result.Times),
		Times:       toFloats(result.Times),
		Potential:   toFloats(result.Potential),
		Kinetic:     toFloats(result.Kinetic),
		Total:       toFloats(result.Total),
		Temperature: toFloats(result.Temperature),
		Metrics:     toFloatMap(result.Metrics),
	}
}

// ExportJSON writes the run and its energy series as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

func ExportJSONFile(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, meta, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
