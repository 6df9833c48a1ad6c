package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Particles int                `json:"particles"`
	Solver    string             `json:"solver"`
	Driver    string             `json:"driver"`
	Params    dynamo.Params      `json:"params"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh directory and returns its id. Frames are
// flattened into positions.csv as time,x0,y0,x1,y1,...
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := s.nextID(fmt.Sprintf("chain%d_%d", cfg.Particles, now.Unix()))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Particles: cfg.Particles,
		Solver:    cfg.Solver,
		Driver:    cfg.Driver.Kind,
		Params:    cfg.Params,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Metrics:   finiteMetrics(result.Metrics),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "positions.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeFrames(w, result); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// finiteMetrics drops values JSON cannot carry, which a diverged run produces.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// nextID appends a counter when several runs land in the same second.
func (s *Store) nextID(base string) string {
	id := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeFrames(w *csv.Writer, result *dynamo.Result) error {
	if len(result.Frames) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range result.Frames[0] {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, frame := range result.Frames {
		row := make([]string, 0, 1+2*len(frame))
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, p := range frame {
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns saved runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads positions.csv back into per-frame particle positions.
func (s *Store) LoadFrames(runID string) ([][]dynamo.Vec2, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]dynamo.Vec2{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	frames := make([][]dynamo.Vec2, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 || len(record)%2 == 0 {
			return nil, nil, fmt.Errorf("positions.csv line %d: expected time plus x,y pairs, got %d fields", i+1, len(record))
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("positions.csv line %d: %w", i+1, err)
			}
			vals[j] = v
		}

		frame := make([]dynamo.Vec2, 0, (len(vals)-1)/2)
		for j := 1; j < len(vals); j += 2 {
			frame = append(frame, dynamo.V(vals[j], vals[j+1]))
		}
		times = append(times, vals[0])
		frames = append(frames, frame)
	}

	return frames, times, nil
}
