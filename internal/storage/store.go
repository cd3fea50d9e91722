// Package storage archives results on disk so they survive between sessions.
//
// Each run lives in its own directory under the archive root:
//
//	<root>/<id>/metadata.json
//	<root>/<id>/points.csv
//
// The CSV header row holds the axis names.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/odeview/internal/result"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

type Archive struct {
	baseDir string
}

func New(baseDir string) *Archive {
	return &Archive{baseDir: baseDir}
}

func (a *Archive) Init() error {
	return os.MkdirAll(a.baseDir, 0755)
}

func (a *Archive) Dir() string { return a.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Source    string             `json:"source,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Axes      []string           `json:"axes"`
	Points    int                `json:"points"`
	Params    map[string]float64 `json:"params,omitempty"`
}

// Save writes r as a new run and returns its metadata.
func (a *Archive) Save(name, source string, params map[string]float64, r *result.Columnar) (*RunMetadata, error) {
	if r == nil {
		return nil, errors.New("storage: nil result")
	}
	if err := a.Init(); err != nil {
		return nil, err
	}

	now := time.Now()
	runID, runDir, err := a.newRunDir(slug(name), now)
	if err != nil {
		return nil, err
	}

	meta := &RunMetadata{
		ID:        runID,
		Name:      name,
		Source:    source,
		Timestamp: now,
		Axes:      r.Axes(),
		Points:    r.Len(),
		Params:    params,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return nil, err
	}
	if err := writePoints(filepath.Join(runDir, pointsFile), r); err != nil {
		return nil, err
	}
	return meta, nil
}

func (a *Archive) newRunDir(base string, now time.Time) (string, string, error) {
	runID := fmt.Sprintf("%s_%d", base, now.Unix())
	for i := 2; ; i++ {
		dir := filepath.Join(a.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d-%d", base, now.Unix(), i)
	}
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writePoints(path string, r *result.Columnar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.Axes()); err != nil {
		return err
	}

	for i := 0; i < r.Len(); i++ {
		row := r.Row(i)
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the archived runs, newest first. Unreadable runs are skipped.
func (a *Archive) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(a.baseDir)
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
		meta, err := a.Load(entry.Name())
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

func (a *Archive) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(a.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadResult reads the points of runID back into a result.
func (a *Archive) LoadResult(runID string) (*result.Columnar, error) {
	f, err := os.Open(filepath.Join(a.baseDir, runID, pointsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s points: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header", result.ErrMalformedPayload, runID)
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %v", result.ErrMalformedPayload, runID, i+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	return result.FromRows(records[0], rows)
}

func (a *Archive) Delete(runID string) error {
	dir := filepath.Join(a.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return os.RemoveAll(dir)
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "run"
	}
	return s
}
