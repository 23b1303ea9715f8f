package submissions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// document is the on-disk layout: one JSON object with a submissions array.
type document struct {
	Submissions []Submission `json:"submissions"`
}

// FileStore keeps the authoritative copy of the collection in memory behind a
// RWMutex and snapshots the whole document to disk on every mutation. The
// snapshot is written to a temp file and renamed into place, so readers of
// the file never observe a partial write and two in-process writers cannot
// lose updates to each other.
type FileStore struct {
	mu   sync.RWMutex
	path string
	doc  document
}

// NewFileStore opens (or lazily creates) the JSON document at path. A
// missing or unparseable file is treated as an empty store.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, doc: document{Submissions: []Submission{}}}

	raw, err := os.ReadFile(path)
	if err == nil {
		var doc document
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr == nil && doc.Submissions != nil {
			fs.doc = doc
		}
		return fs, nil
	}
	if !os.IsNotExist(err) {
		// Unreadable file: favor availability, start empty.
		return fs, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	return fs, nil
}

// save writes the full document. Caller must hold the write lock.
func (f *FileStore) save() error {
	raw, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".submissions-*.json")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}

func (f *FileStore) List() ([]Submission, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Submission, len(f.doc.Submissions))
	copy(out, f.doc.Submissions)
	return out, nil
}

func (f *FileStore) Append(in SubmissionInput) (*Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	// Keep timestamps non-decreasing even if the wall clock steps back.
	if n := len(f.doc.Submissions); n > 0 {
		if last := f.doc.Submissions[n-1].Timestamp; now.Before(last) {
			now = last
		}
	}

	sub := Submission{
		ID:                 uuid.NewString(),
		Crop:               in.Crop,
		Location:           in.Location,
		Date:               in.Date,
		Lat:                in.Lat,
		Lng:                in.Lng,
		RiskLevel:          in.RiskLevel,
		ClimaticConditions: in.ClimaticConditions,
		FullAnalysis:       in.FullAnalysis,
		Choice:             nil,
		Timestamp:          now,
	}

	f.doc.Submissions = append(f.doc.Submissions, sub)
	if err := f.save(); err != nil {
		f.doc.Submissions = f.doc.Submissions[:len(f.doc.Submissions)-1]
		return nil, err
	}
	return &sub, nil
}

func (f *FileStore) UpdateChoice(id string, choice *string) (*Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.doc.Submissions {
		if f.doc.Submissions[i].ID != id {
			continue
		}
		prev := f.doc.Submissions[i].Choice
		f.doc.Submissions[i].Choice = choice
		if err := f.save(); err != nil {
			f.doc.Submissions[i].Choice = prev
			return nil, err
		}
		sub := f.doc.Submissions[i]
		return &sub, nil
	}
	return nil, ErrNotFound
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Submissions = []Submission{}
	return f.save()
}

func (f *FileStore) Aggregate() (*Stats, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return ComputeStats(f.doc.Submissions), nil
}
