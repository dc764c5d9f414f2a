// Package jsonstore persists an append-only collection of records as a single
// JSON array file.
//
// Every Append is a read-modify-write-replace: the current array is read, the
// record is appended, the whole array is written to a temp file next to the
// target and renamed over it. Appends to the same path are serialized by a
// process-wide lock, so concurrent writers never lose each other's records.
//
// This is adequate for small collections only; each append rewrites the file.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/dwikikusuma/shoping-voice/pkg/logger"
)

var (
	ErrLoadFailure = errors.New("load failure")
	ErrPersistence = errors.New("persistence failure")
)

// locks maps absolute file path -> *sync.Mutex.
var locks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := locks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type Store[T any] struct {
	path string
	log  *slog.Logger
	now  func() time.Time
}

func New[T any](path string, log *slog.Logger) *Store[T] {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Store[T]{
		path: path,
		log:  logger.OrDefault(log).With(slog.String("store", filepath.Base(path))),
		now:  time.Now,
	}
}

func (s *Store[T]) Path() string { return s.path }

// Load returns the persisted collection. A missing file is an empty
// collection; unreadable or malformed content is ErrLoadFailure.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu := lockFor(s.path)
	mu.Lock()
	defer mu.Unlock()

	_, recs, err := s.read()
	return recs, err
}

// Append adds rec to the end of the collection.
func (s *Store[T]) Append(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mu := lockFor(s.path)
	mu.Lock()
	defer mu.Unlock()

	raw, recs, err := s.read()
	if err != nil {
		if !errors.Is(err, ErrLoadFailure) {
			return err
		}
		s.backupCorrupt(raw, err)
		recs = nil
	}

	recs = append(recs, rec)
	if err := s.replace(recs); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *Store[T]) read() ([]byte, []T, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []T{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", ErrLoadFailure, s.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, []T{}, nil
	}

	var recs []T
	if err := json.Unmarshal(raw, &recs); err != nil {
		return raw, nil, fmt.Errorf("%w: decode %s: %v", ErrLoadFailure, s.path, err)
	}
	if recs == nil {
		recs = []T{}
	}
	return raw, recs, nil
}

func (s *Store[T]) backupCorrupt(raw []byte, cause error) {
	if raw == nil {
		s.log.Error("collection unreadable, starting empty", slog.Any("err", cause))
		return
	}
	backup := s.path + ".corrupt-" + strconv.FormatInt(s.now().UnixNano(), 10)
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		s.log.Error("collection corrupt, backup failed", slog.Any("err", cause), slog.String("backup_err", err.Error()))
		return
	}
	s.log.Warn("collection corrupt, preserved and starting empty",
		slog.Any("err", cause),
		slog.String("backup", backup),
	)
}

func (s *Store[T]) replace(recs []T) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
