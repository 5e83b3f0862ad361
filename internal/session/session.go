// Package session stores the files belonging to one extraction job.
//
// Every job gets its own directory below the upload root, named by a random
// UUID, holding the two uploaded spreadsheets and the result workbook.
// Directories older than the configured TTL are removed by a sweeper; the
// directory of the job that is still running or whose result can still be
// downloaded is never swept.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ResultName is the file name of the result workbook inside a session.
const ResultName = "resultado.xlsx"

var (
	ErrNotFound        = errors.New("session not found")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFilename = errors.New("invalid filename")
)

// Store manages session directories below a root directory.
type Store struct {
	root string
	ttl  time.Duration
	now  func() time.Time
}

// NewStore creates root if needed and returns a store whose sessions expire
// after ttl. A zero ttl disables expiry.
func NewStore(root string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	return &Store{root: abs, ttl: ttl, now: time.Now}, nil
}

// Root returns the absolute upload root.
func (s *Store) Root() string { return s.root }

// Create allocates a new empty session.
func (s *Store) Create() (*Session, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Session{ID: id, dir: dir}, nil
}

// Open returns an existing session. Ids that are not UUIDs are rejected
// before touching the filesystem.
func (s *Store) Open(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	dir := filepath.Join(s.root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &Session{ID: id, dir: dir}, nil
}

// Remove deletes a session and its files.
func (s *Store) Remove(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return os.RemoveAll(filepath.Join(s.root, id))
}

// Sweep removes expired sessions, skipping every id for which keep returns
// true. It returns the number of sessions removed.
func (s *Store) Sweep(keep func(id string) bool) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := e.Name()
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		if keep != nil && keep(id) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, id)); err != nil {
			errs = append(errs, fmt.Errorf("remove session %s: %w", id, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// Session is one job's directory.
type Session struct {
	ID  string
	dir string
}

// Dir returns the session directory.
func (s *Session) Dir() string { return s.dir }

// Path returns the location of name inside the session.
func (s *Session) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// ResultPath returns the location of the result workbook.
func (s *Session) ResultPath() string { return s.Path(ResultName) }

// Save copies r into the session under a sanitized form of name and returns
// the stored path. At most limit bytes are accepted when limit > 0.
func (s *Session) Save(name string, r io.Reader, limit int64) (string, error) {
	safe := SafeFilename(name)
	if safe == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	path := s.Path(safe)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", safe, err)
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("write %s: %w", safe, copyErr)
	case closeErr != nil:
		err = fmt.Errorf("close %s: %w", safe, closeErr)
	case limit > 0 && n > limit:
		err = fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, safe, limit)
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("failed to remove partial upload", "path", path, "error", rmErr)
		}
		return "", err
	}
	return path, nil
}
