package modelstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"minerva/internal/models"
	"minerva/internal/store"
	"minerva/pkg/classifier"
)

// FileStore persists model snapshots as versioned JSON files in a directory,
// one file per version (model-000042.json). A snapshot is written to a temp
// file and renamed into place, so readers only ever see complete files and
// the previous version stays loadable until the new one is published.
type FileStore struct {
	dir string
}

var _ store.ModelStore = (*FileStore)(nil)

const (
	filePrefix = "model-"
	fileSuffix = ".json"
)

// NewFileStore creates the snapshot directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("model directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save assigns the model the next version number and publishes it. The
// model's Version field is set to the assigned version before encoding.
func (fs *FileStore) Save(model *classifier.Model) (int64, error) {
	if model == nil {
		return 0, errors.New("cannot save a nil model")
	}
	latest, err := fs.LatestVersion()
	if err != nil && !errors.Is(err, models.ErrNoModel) {
		return 0, err
	}
	version := latest + 1
	model.Version = version

	data, err := json.Marshal(model)
	if err != nil {
		return 0, fmt.Errorf("failed to encode model snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(fs.dir, filePrefix+"*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, fs.path(version)); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to publish snapshot version %d: %w", version, err)
	}
	return version, nil
}

// Load reads one snapshot version and rebuilds its term index.
func (fs *FileStore) Load(version int64) (*classifier.Model, error) {
	data, err := os.ReadFile(fs.path(version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNoModel
		}
		return nil, fmt.Errorf("failed to read snapshot version %d: %w", version, err)
	}
	var m classifier.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot version %d: %w", version, err)
	}
	m.Reindex()
	return &m, nil
}

// LoadLatest loads the highest published version, or ErrNoModel when the
// directory holds no snapshots.
func (fs *FileStore) LoadLatest() (*classifier.Model, error) {
	version, err := fs.LatestVersion()
	if err != nil {
		return nil, err
	}
	return fs.Load(version)
}

// LatestVersion returns the highest published version number.
func (fs *FileStore) LatestVersion() (int64, error) {
	versions, err := fs.ListVersions()
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, models.ErrNoModel
	}
	return versions[len(versions)-1], nil
}

// ListVersions returns all published versions in ascending order.
func (fs *FileStore) ListVersions() ([]int64, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read model directory %s: %w", fs.dir, err)
	}
	var versions []int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}

func (fs *FileStore) path(version int64) string {
	return filepath.Join(fs.dir, fmt.Sprintf("%s%06d%s", filePrefix, version, fileSuffix))
}
