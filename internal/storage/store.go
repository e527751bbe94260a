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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/survlab/internal/estimators"
	"github.com/san-kum/survlab/internal/workflow"
)

const (
	metadataFile = "metadata.json"
	curvesFile   = "curves.csv"

	lowerSuffix = "_lower"
	upperSuffix = "_upper"
)

var ErrRunNotFound = errors.New("storage: run not found")

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

type FitRecord struct {
	Strategy string             `json:"strategy"`
	Params   map[string]float64 `json:"params"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

type RunMetadata struct {
	ID             string      `json:"id"`
	Dataset        string      `json:"dataset"`
	Timestamp      time.Time   `json:"timestamp"`
	Strategies     []string    `json:"strategies"`
	FitPolicy      string      `json:"fit_policy"`
	TimelinePoints int         `json:"timeline_points"`
	Units          int         `json:"units"`
	Failures       int         `json:"failures"`
	Fits           []FitRecord `json:"fits"`
	Skipped        []string    `json:"skipped,omitempty"`
}

// NewMetadata describes one evaluated cycle. NaN metrics are left out since
// JSON cannot carry them.
func NewMetadata(res *workflow.RenderResult, cfg workflow.Config) RunMetadata {
	meta := RunMetadata{
		Dataset:        res.Dataset,
		Timestamp:      time.Now().UTC(),
		FitPolicy:      string(cfg.Policy),
		TimelinePoints: cfg.TimelinePoints,
		Units:          res.Table.Summary.Units,
		Failures:       res.Table.Summary.Failures,
	}
	if res.Figure != nil {
		meta.Strategies = res.Figure.Names()
	}
	for _, row := range res.Summary.Rows {
		fr := FitRecord{
			Strategy: row.Strategy.String(),
			Params:   make(map[string]float64, len(row.Params)),
			Metrics:  make(map[string]float64, len(row.Values)),
		}
		for _, p := range row.Params {
			fr.Params[p.Name] = p.Value
		}
		for i, v := range row.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			fr.Metrics[res.Summary.Columns[i]] = v
		}
		meta.Fits = append(meta.Fits, fr)
	}
	for _, f := range res.Failures {
		meta.Skipped = append(meta.Skipped, f.Error())
	}
	return meta
}

// Save writes meta and the figure's curves under a fresh run id of the form
// <dataset-slug>_<8 hex chars>. A failed save leaves no run directory behind.
func (s *Store) Save(meta RunMetadata, fig *workflow.Figure) (id string, err error) {
	runID := fmt.Sprintf("%s_%s", Slug(meta.Dataset), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}

	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	if fig == nil || fig.Len() == 0 {
		return runID, nil
	}

	err = writeFile(filepath.Join(runDir, curvesFile), func(w io.Writer) error {
		return writeCurves(csv.NewWriter(w), fig)
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// writeFile creates path and runs write on it, reporting the close error
// when the write itself succeeded.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCurves(w *csv.Writer, fig *workflow.Figure) error {
	header := []string{"time"}
	for _, c := range fig.Curves {
		header = append(header, c.Name())
		if c.HasBand() {
			header = append(header, c.Name()+lowerSuffix, c.Name()+upperSuffix)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 8, 64) }
	for i, t := range fig.Curves[0].Time {
		row := []string{format(t)}
		for _, c := range fig.Curves {
			row = append(row, format(c.Survival[i]))
			if c.HasBand() {
				row = append(row, format(c.Lower[i]), format(c.Upper[i]))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Slug turns a display name into a lower-case identifier safe for file names.
func Slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "run"
	}
	return sb.String()
}

// List returns every readable run, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadCurves rebuilds the saved figure of a run.
func (s *Store) LoadCurves(runID string) (*workflow.Figure, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, curvesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no curves", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	fig := &workflow.Figure{XLabel: workflow.XLabel, YLabel: workflow.YLabel}
	if meta, err := s.Load(runID); err == nil {
		fig.Title = meta.Dataset
	}
	if len(records) == 0 {
		return fig, nil
	}

	// column index -> where the value goes
	type target struct {
		curve int
		dst   func(c *estimators.Curve) *[]float64
	}
	header := records[0]
	targets := make([]target, len(header))
	for j := 1; j < len(header); j++ {
		name := header[j]
		switch {
		case strings.HasSuffix(name, lowerSuffix):
			targets[j] = target{curve: len(fig.Curves) - 1, dst: func(c *estimators.Curve) *[]float64 { return &c.Lower }}
		case strings.HasSuffix(name, upperSuffix):
			targets[j] = target{curve: len(fig.Curves) - 1, dst: func(c *estimators.Curve) *[]float64 { return &c.Upper }}
		default:
			st, err := estimators.ParseStrategy(name)
			if err != nil {
				return nil, fmt.Errorf("run %s: column %d: %w", runID, j, err)
			}
			fig.Curves = append(fig.Curves, estimators.Curve{Strategy: st})
			targets[j] = target{curve: len(fig.Curves) - 1, dst: func(c *estimators.Curve) *[]float64 { return &c.Survival }}
		}
		if targets[j].curve < 0 {
			return nil, fmt.Errorf("run %s: band column %q precedes its curve", runID, name)
		}
	}

	var times []float64
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("run %s: row %d has %d fields, want %d", runID, i+2, len(record), len(header))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: row %d: %w", runID, i+2, err)
		}
		times = append(times, t)
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+2, err)
			}
			tg := targets[j]
			dst := tg.dst(&fig.Curves[tg.curve])
			*dst = append(*dst, v)
		}
	}
	for i := range fig.Curves {
		fig.Curves[i].Time = append([]float64(nil), times...)
	}
	return fig, nil
}

// CurvesPath is the CSV file of a run, for callers that stream it as is.
func (s *Store) CurvesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, curvesFile)
}
