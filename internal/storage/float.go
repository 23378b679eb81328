package storage

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 whose JSON form keeps NaN and ±Inf, which
// encoding/json rejects, as the strings "NaN", "+Inf" and "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func toFloats(xs []float64) []Float {
	if xs == nil {
		return nil
	}
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

func toFloatMap(m map[string]float64) map[string]Float {
	if m == nil {
		return nil
	}
	out := make(map[string]Float, len(m))
	for k, v := range m {
		out[k] = Float(v)
	}
	return out
}

func fromFloatMap(m map[string]Float) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = float64(v)
	}
	return out
}

type metadataFields RunMetadata

// runMetadataJSON shadows the fields of RunMetadata that may hold
// non-finite values.
type runMetadataJSON struct {
	metadataFields
	EnergyDrift Float            `json:"energy_drift"`
	Metrics     map[string]Float `json:"metrics"`
}

func (m RunMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(runMetadataJSON{
		metadataFields: metadataFields(m),
		EnergyDrift:    Float(m.EnergyDrift),
		Metrics:        toFloatMap(m.Metrics),
	})
}

func (m *RunMetadata) UnmarshalJSON(data []byte) error {
	var aux runMetadataJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = RunMetadata(aux.metadataFields)
	m.EnergyDrift = float64(aux.EnergyDrift)
	m.Metrics = fromFloatMap(aux.Metrics)
	return nil
}
