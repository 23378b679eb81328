package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	energiesFile = "energies.csv"
)

var energyHeader = []string{"time", "potential", "kinetic", "total", "temperature"}

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Topology    string             `json:"topology"`
	Coordinates string             `json:"coordinates"`
	Integrator  string             `json:"integrator"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	StepsTaken  int                `json:"steps_taken"`
	Seed        int64              `json:"seed"`
	Temperature float64            `json:"temperature"`
	Workers     int                `json:"workers"`
	NAtoms      int                `json:"natoms"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

// NewRunMetadata describes a finished run of cfg.
func NewRunMetadata(name string, cfg *config.Config, natoms int, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		Name:        name,
		Timestamp:   time.Now(),
		Topology:    cfg.Topology,
		Coordinates: cfg.Coordinates,
		Integrator:  cfg.Integrator,
		Dt:          cfg.Dt,
		Steps:       cfg.Steps,
		Seed:        cfg.Seed,
		Temperature: cfg.Temperature,
		Workers:     cfg.Workers,
		NAtoms:      natoms,
	}
	if result != nil {
		meta.StepsTaken = result.StepsTaken
		meta.EnergyDrift = result.EnergyDrift
		meta.Metrics = result.Metrics
		for _, err := range result.Errors {
			meta.Errors = append(meta.Errors, err.Error())
		}
	}
	return meta
}

// Save writes meta and the energy series of result into a new run
// directory and returns the run ID. Nothing is left behind on failure.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (id string, err error) {
	if result == nil {
		return "", fmt.Errorf("save %s: no result", meta.Name)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergies(filepath.Join(runDir, energiesFile), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeEnergies(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(energyHeader); err != nil {
		f.Close()
		return err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'g', -1, 64),
			strconv.FormatFloat(result.Potential[i], 'g', -1, 64),
			strconv.FormatFloat(result.Kinetic[i], 'g', -1, 64),
			strconv.FormatFloat(result.Total[i], 'g', -1, 64),
			strconv.FormatFloat(result.Temperature[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads back the energy series of a run. Metrics and the drift
// come from the run metadata.
func (s *Store) LoadSeries(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, energiesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(energyHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &sim.Result{
		Metrics:     meta.Metrics,
		EnergyDrift: meta.EnergyDrift,
		StepsTaken:  meta.StepsTaken,
	}
	if result.Metrics == nil {
		result.Metrics = make(map[string]float64)
	}
	series := []*[]float64{&result.Times, &result.Potential, &result.Kinetic, &result.Total, &result.Temperature}

	for i := 1; i < len(records); i++ {
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", energiesFile, i+1, err)
			}
			*series[j] = append(*series[j], v)
		}
	}

	return result, nil
}
