package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inkfolio/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Store writes uploaded files under a single directory. Entities reference
// assets by stored name only; the name never contains path separators.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes data under a collision-resistant name derived from
// originalName and returns the stored name. The name is what the entity row
// should reference; on error nothing must be persisted by the caller.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	name := StoredName(originalName, uuid.NewString())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing asset %s: %w", name, common.ErrStorage)
	}
	return name, nil
}

// Delete removes a stored asset. A missing file is not an error; a name that
// would escape the upload directory is.
func (s *Store) Delete(storedName string) error {
	if !safeName(storedName) {
		return fmt.Errorf("unsafe stored name %q: %w", storedName, common.ErrStorage)
	}
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing asset %s: %w", storedName, common.ErrStorage)
	}
	return nil
}

// StoredName builds the sanitized unique filename for an upload: slugged
// original stem, a fragment of the random source, and the original extension.
// Pure so it can be tested without touching disk.
func StoredName(originalName, random string) string {
	base := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "upload"
	}
	if !safeExt(ext) {
		ext = ""
	}
	suffix := strings.ReplaceAll(random, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return stem + "-" + suffix + ext
}

func safeName(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.Contains(name, "..") &&
		!strings.ContainsAny(name, `/\`)
}

func safeExt(ext string) bool {
	if ext == "" {
		return true
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
