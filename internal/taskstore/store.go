// Package taskstore persists the task board as a single JSON document on
// disk. The store is pass-through: any well-formed JSON value is accepted
// and returned unchanged in meaning.
package taskstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"
)

// DefaultDocument is returned by Load while no document has been saved.
var DefaultDocument = json.RawMessage(`{"tasks":[],"columns":[]}`)

var (
	// ErrInvalidDocument is returned by Save when the input is not JSON.
	ErrInvalidDocument = errors.New("invalid task document")
	// ErrCorruptDocument is returned by Load when the backing file exists
	// but does not hold valid JSON.
	ErrCorruptDocument = errors.New("corrupt task document")
)

// InvalidDocumentError describes why Save rejected its input. It matches
// ErrInvalidDocument with errors.Is.
type InvalidDocumentError struct {
	Reason string
	Err    error
}

func (e *InvalidDocumentError) Error() string { return e.Reason }

func (e *InvalidDocumentError) Unwrap() error { return e.Err }

func (e *InvalidDocumentError) Is(target error) bool { return target == ErrInvalidDocument }

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the persisted document, or DefaultDocument when the file does
// not exist yet. Reading never creates the file.
func (s *Store) Load() (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return append(json.RawMessage(nil), DefaultDocument...), nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrCorruptDocument)
	}
	return json.RawMessage(data), nil
}

// Save replaces the persisted document with doc. The file is written to a
// temp file in the same directory and renamed over the target, so readers
// see either the old or the new document, never a mix.
func (s *Store) Save(doc []byte) error {
	doc = bytes.TrimSpace(doc)
	if err := checkDocument(doc); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return invalidDocument(err)
	}
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, buf.Bytes())
}

// checkDocument accepts any syntactically valid UTF-8 JSON. Numbers are not
// decoded, so values beyond float64 range survive a save unchanged.
func checkDocument(doc []byte) error {
	if !utf8.Valid(doc) {
		return &InvalidDocumentError{Reason: "document is not valid UTF-8"}
	}
	if json.Valid(doc) {
		return nil
	}
	// Indent reports the *json.SyntaxError with its offset
	err := json.Indent(&bytes.Buffer{}, doc, "", "")
	if err == nil {
		err = errors.New("invalid JSON")
	}
	return invalidDocument(err)
}

func invalidDocument(err error) error {
	reason := err.Error()
	var se *json.SyntaxError
	if errors.As(err, &se) {
		reason = fmt.Sprintf("%s (offset %d)", se.Error(), se.Offset)
	}
	return &InvalidDocumentError{Reason: reason, Err: err}
}

func writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
