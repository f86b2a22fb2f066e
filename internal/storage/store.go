package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cauchy/internal/experiment"
	"github.com/san-kum/cauchy/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	dataFile     = "data.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir is the directory holding a run's files.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string        `json:"id"`
	Problem   string        `json:"problem"`
	Solver    string        `json:"solver"`
	Module    string        `json:"module,omitempty"`
	Numeric   string        `json:"numeric"`
	Timestamp time.Time     `json:"timestamp"`
	Step      float64       `json:"step"`
	TMax      float64       `json:"t_max"`
	Samples   int           `json:"samples"`
	Labels    []string      `json:"labels"`
	Elapsed   time.Duration `json:"elapsed_ns"`

	Metrics []metrics.Result `json:"metrics,omitempty"`
}

// Save writes metadata.json and data.csv for r into a new run directory
// and returns the run id.
func (s *Store) Save(r *experiment.Report) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", r.Problem, now.Unix())
	for n := 2; ; n++ {
		_, err := os.Stat(s.Dir(runID))
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("checking run %s: %w", runID, err)
		}
		runID = fmt.Sprintf("%s_%d_%d", r.Problem, now.Unix(), n)
	}
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Problem:   r.Problem,
		Solver:    r.Solver,
		Module:    r.Module,
		Numeric:   r.Numeric,
		Timestamp: now,
		Step:      r.Step,
		TMax:      r.TMax,
		Samples:   len(r.Time),
		Labels:    r.Labels,
		Elapsed:   r.Elapsed,
		Metrics:   finite(r.Metrics),
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, dataFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, r); err != nil {
		return "", err
	}
	return runID, csvFile.Sync()
}

// finite drops results JSON cannot encode.
func finite(rs []metrics.Result) []metrics.Result {
	var out []metrics.Result
	for _, r := range rs {
		if !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
			out = append(out, r)
		}
	}
	return out
}

// WriteCSV writes a header of t and the report labels followed by one
// row per sample.
func WriteCSV(out io.Writer, r *experiment.Report) error {
	w := csv.NewWriter(out)

	header := append([]string{"t"}, r.Labels...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for k, t := range r.Time {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i, col := range r.Columns {
			row[i+1] = strconv.FormatFloat(col[k], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadReport rebuilds the report of a stored run from its metadata and
// data.csv.
func (s *Store) LoadReport(runID string) (*experiment.Report, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.Dir(runID), dataFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: missing header", runID)
	}

	labels := records[0][1:]
	report := &experiment.Report{
		Problem: meta.Problem,
		Solver:  meta.Solver,
		Numeric: meta.Numeric,
		Module:  meta.Module,
		Step:    meta.Step,
		TMax:    meta.TMax,
		Elapsed: meta.Elapsed,
		Metrics: meta.Metrics,
		Labels:  labels,
		Time:    make([]float64, 0, len(records)-1),
		Columns: make([][]float64, len(labels)),
	}

	for line, record := range records[1:] {
		values := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("read %s line %d: %w", runID, line+2, err)
			}
			values[j] = v
		}
		report.Time = append(report.Time, values[0])
		for i := range report.Columns {
			report.Columns[i] = append(report.Columns[i], values[i+1])
		}
	}
	return report, nil
}

// CopyCSV streams a run's data.csv to w.
func (s *Store) CopyCSV(runID string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.Dir(runID), dataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
