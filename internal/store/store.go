// Package store persists intake records on the desk machine: signature
// images under signatures/ and the record index in records.json.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"StudioIntake/internal/intake"
)

const (
	recordsFile   = "records.json"
	signatureDir  = "signatures"
	filePerm      = 0o644
	directoryPerm = 0o755

	// maxNameAttempts bounds the search for a free signature file name.
	maxNameAttempts = 10
)

var (
	ErrExists   = errors.New("store: object already exists")
	ErrNotFound = errors.New("store: record not found")
)

// Stats summarizes stored records by risk.
type Stats struct {
	Total       int
	WithRisk    int
	WithoutRisk int
}

// Store is safe for concurrent use.
type Store struct {
	dir string
	now func() time.Time

	mu      sync.RWMutex
	records []intake.Record
}

// Open loads the store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, signatureDir), directoryPerm); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	s := &Store{dir: dir, now: time.Now}

	data, err := os.ReadFile(filepath.Join(dir, recordsFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("store: read index: %w", err)
	default:
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("store: parse index: %w", err)
		}
	}
	log.Printf("[STORE] Opened %s with %d records", dir, len(s.records))
	return s, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// UploadSignature writes a signature image. Existing files are never
// overwritten.
func (s *Store) UploadSignature(name string, png []byte) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("store: invalid signature name %q", name)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, signatureDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err != nil {
		return fmt.Errorf("store: upload signature: %w", err)
	}
	if _, err := f.Write(png); err != nil {
		f.Close()
		return fmt.Errorf("store: upload signature: %w", err)
	}
	return f.Close()
}

// Signature returns the stored image for r.
func (s *Store) Signature(r intake.Record) ([]byte, error) {
	if r.SignatureFile == "" {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, signatureDir, filepath.Base(r.SignatureFile)))
	if err != nil {
		return nil, fmt.Errorf("store: read signature: %w", err)
	}
	return data, nil
}

// Save validates sub, uploads its signature and appends a record.
func (s *Store) Save(sub intake.Submission) (intake.Record, error) {
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return intake.Record{}, err
	}
	now := s.now()
	name, err := s.uploadUnique(sub.Client.Name, sub.Signature, now)
	if err != nil {
		return intake.Record{}, fmt.Errorf("erro no upload da assinatura: %w", err)
	}
	rec := intake.NewRecord(sub, name, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if err := s.flushLocked(); err != nil {
		s.records = s.records[:len(s.records)-1]
		os.Remove(filepath.Join(s.dir, signatureDir, name))
		return intake.Record{}, err
	}
	log.Printf("[STORE] Saved record %s (risk=%t)", rec.ID, rec.HasRisk)
	return rec, nil
}

// uploadUnique stores png under the first free name, stepping the name's
// timestamp a millisecond at a time when another kiosk got there first.
func (s *Store) uploadUnique(client string, png []byte, at time.Time) (string, error) {
	var err error
	for i := 0; i < maxNameAttempts; i++ {
		name := intake.SignatureFileName(client, at.Add(time.Duration(i)*time.Millisecond))
		if err = s.UploadSignature(name, png); !errors.Is(err, ErrExists) {
			return name, err
		}
	}
	return "", err
}

// flushLocked rewrites the index atomically.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode index: %w", err)
	}
	tmp := filepath.Join(s.dir, recordsFile+".tmp")
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("store: write index: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, recordsFile)); err != nil {
		return fmt.Errorf("store: write index: %w", err)
	}
	return nil
}

// List returns every record, newest first.
func (s *Store) List() []intake.Record {
	s.mu.RLock()
	out := make([]intake.Record, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Filter returns records whose client name contains term (ignoring case) or
// whose phone contains it. An empty term matches everything.
func (s *Store) Filter(term string) []intake.Record {
	return Filter(s.List(), term)
}

// Filter applies the dashboard search to records.
func Filter(records []intake.Record, term string) []intake.Record {
	if term == "" {
		return records
	}
	lower := strings.ToLower(term)
	var out []intake.Record
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Client.Name), lower) || strings.Contains(r.Client.Phone, term) {
			out = append(out, r)
		}
	}
	return out
}

// Get looks a record up by ID.
func (s *Store) Get(id string) (intake.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return intake.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Stats counts records by risk.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.records)}
	for _, r := range s.records {
		if r.HasRisk {
			st.WithRisk++
		}
	}
	st.WithoutRisk = st.Total - st.WithRisk
	return st
}
