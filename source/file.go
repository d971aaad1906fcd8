package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

// fileExtensions are tried in order.
var fileExtensions = []string{".json", ".yaml", ".yml", ".pb"}

// FileSource reads <Dir>/<world>.{json,yaml,yml,pb}.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Identity() string { return "file:" + s.Dir }

func (s *FileSource) Fetch(ctx context.Context, worldID string) ([]records.Record, error) {
	if err := validWorldID(worldID); err != nil {
		return nil, err
	}
	for _, ext := range fileExtensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.Dir, worldID+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		format, _ := FormatOf(ext)
		recs, err := Decode(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return recs, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrWorldNotFound, worldID, s.Dir)
}

// Worlds lists the worlds that have a record file in Dir.
func (s *FileSource) Worlds(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Dir, err)
	}
	seen := map[string]struct{}{}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if _, ok := FormatOf(ext); !ok {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if _, dup := seen[id]; dup || validWorldID(id) != nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, ctx.Err()
}
