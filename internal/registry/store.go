package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found in registry")

type Store interface {
	Load(ctx context.Context, file string) (*Record, error)
	Save(ctx context.Context, file string, r *Record) error
	List(ctx context.Context) ([]string, error)
}

type fileStore struct {
	dir string
}

// NewFileStore keeps registry files in dir.
func NewFileStore(dir string) Store {
	return fileStore{dir}
}

func (s fileStore) Load(_ context.Context, file string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, file)
	}
	if err != nil {
		return nil, err
	}

	r, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return r, nil
}

func (s fileStore) Save(_ context.Context, file string, r *Record) error {
	data, err := encode(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, file), data, 0644); err != nil {
		return err
	}

	zap.L().With(zap.String("file", file), zap.String("dir", s.dir)).Info("Registry saved")
	return nil
}

func (s fileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && IsRegistryFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// IsRegistryFile reports whether name is one of the known registry files.
func IsRegistryFile(name string) bool {
	for _, f := range Files {
		if f == name {
			return true
		}
	}
	return false
}

type mirror struct {
	primary   Store
	secondary Store
}

// NewMirror writes through to both stores and reads from secondary when the
// primary does not hold a file.
func NewMirror(primary, secondary Store) Store {
	return mirror{primary, secondary}
}

func (m mirror) Load(ctx context.Context, file string) (*Record, error) {
	r, err := m.primary.Load(ctx, file)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return r, err
	}

	r, err = m.secondary.Load(ctx, file)
	if err != nil {
		return nil, err
	}
	zap.L().With(zap.String("file", file)).Info("Registry file restored from mirror")
	if err := m.primary.Save(ctx, file, r); err != nil {
		zap.L().With(zap.Error(err), zap.String("file", file)).Warn("Unable to cache mirrored registry file")
	}

	return r, nil
}

func (m mirror) Save(ctx context.Context, file string, r *Record) error {
	if err := m.primary.Save(ctx, file, r); err != nil {
		return err
	}
	if err := m.secondary.Save(ctx, file, r); err != nil {
		return fmt.Errorf("mirror %s: %w", file, err)
	}
	return nil
}

func (m mirror) List(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, s := range []Store{m.primary, m.secondary} {
		files, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			seen[f] = true
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func trimSlash(s string) string {
	return strings.Trim(s, "/")
}
