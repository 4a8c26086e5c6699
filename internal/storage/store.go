package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
)

var (
	ErrNotInitialized = errors.New("storage: store not initialized")
	ErrRunNotFound    = errors.New("storage: run not found")
)

const (
	metadataFile = "metadata.json"
	curvesFile   = "curves.csv"
	catalogFile  = "catalog.db"
)

// Store keeps saved renders under baseDir, one directory per run, with a
// SQLite catalog for listing.
type Store struct {
	baseDir string
	db      *sql.DB
	log     *zap.Logger
	now     func() time.Time
}

func New(baseDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: logger, now: time.Now}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(s.baseDir, catalogFile))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		lesson TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		params TEXT,
		observables TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_lesson ON runs(lesson);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Lesson      string             `json:"lesson"`
	Timestamp   time.Time          `json:"timestamp"`
	Values      dynamo.Values      `json:"values"`
	Observables map[string]float64 `json:"observables,omitempty"`
}

// Save writes the visible series of fig with the values that produced it
// and returns the run id. Non-finite observables are left out. A run that
// fails part way is removed.
func (s *Store) Save(ctx context.Context, lesson string, values dynamo.Values, fig *lessons.Figure, observables map[string]float64) (id string, err error) {
	if s.db == nil {
		return "", ErrNotInitialized
	}
	runID := fmt.Sprintf("%s_%s", lesson, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.RemoveAll(runDir))
		}
	}()

	meta := RunMetadata{
		ID:          runID,
		Lesson:      lesson,
		Timestamp:   s.now(),
		Values:      dynamo.Values(s.finite(runID, values)),
		Observables: s.finite(runID, observables),
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCurves(filepath.Join(runDir, curvesFile), fig); err != nil {
		return "", err
	}

	params, err := json.Marshal(meta.Values)
	if err != nil {
		return "", err
	}
	obs, err := json.Marshal(meta.Observables)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, lesson, created_at, params, observables) VALUES (?, ?, ?, ?, ?)`,
		runID, lesson, meta.Timestamp.UnixNano(), string(params), string(obs))
	if err != nil {
		return "", fmt.Errorf("failed to catalog run: %w", err)
	}

	s.log.Info("saved run", zap.String("id", runID), zap.String("lesson", lesson))
	return runID, nil
}

// finite drops NaN and infinite entries, which JSON cannot encode.
func (s *Store) finite(runID string, m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.log.Debug("dropping non-finite value", zap.String("id", runID), zap.String("name", k))
			continue
		}
		out[k] = v
	}
	return out
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCurves(path string, fig *lessons.Figure) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"series", "x", "y"}); err != nil {
		return err
	}
	if fig != nil {
		for _, p := range fig.Panels {
			for _, series := range p.Visible() {
				n := min(len(series.X), len(series.Y))
				for i := 0; i < n; i++ {
					row := []string{
						series.Name,
						strconv.FormatFloat(series.X[i], 'g', -1, 64),
						strconv.FormatFloat(series.Y[i], 'g', -1, 64),
					}
					if err := w.Write(row); err != nil {
						return err
					}
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the catalogued runs, newest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lesson, created_at, params, observables FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var (
			meta        RunMetadata
			created     int64
			params, obs sql.NullString
		)
		if err := rows.Scan(&meta.ID, &meta.Lesson, &created, &params, &obs); err != nil {
			return nil, err
		}
		meta.Timestamp = time.Unix(0, created)
		if params.Valid {
			if err := json.Unmarshal([]byte(params.String), &meta.Values); err != nil {
				s.log.Warn("bad catalog params", zap.String("id", meta.ID), zap.Error(err))
			}
		}
		if obs.Valid {
			if err := json.Unmarshal([]byte(obs.String), &meta.Observables); err != nil {
				s.log.Warn("bad catalog observables", zap.String("id", meta.ID), zap.Error(err))
			}
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || filepath.Base(runID) != runID || runID == "." || runID == ".." {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrDataFormat, metadataFile, err)
	}
	return &meta, nil
}

// LoadCurves reads back the saved series in the order they were written.
func (s *Store) LoadCurves(runID string) ([]*lessons.Series, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, curvesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrDataFormat, curvesFile, err)
	}

	var curves []*lessons.Series
	index := make(map[string]*lessons.Series)
	for i, record := range records {
		if i == 0 {
			continue
		}
		x, errX := strconv.ParseFloat(record[1], 64)
		y, errY := strconv.ParseFloat(record[2], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: %s line %d", dynamo.ErrDataFormat, curvesFile, i+1)
		}
		c, ok := index[record[0]]
		if !ok {
			c = &lessons.Series{Name: record[0]}
			index[record[0]] = c
			curves = append(curves, c)
		}
		c.X = append(c.X, x)
		c.Y = append(c.Y, y)
	}
	return curves, nil
}
