package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/errors"
	stowio "github.com/matzehuels/stowage/pkg/io"
	"github.com/matzehuels/stowage/pkg/node"
	"github.com/matzehuels/stowage/pkg/observability"
)

// DefaultFileName is the fallback file name used when no primary path is set.
const DefaultFileName = "stowage.xml"

// FileStore reads and writes node trees as XML files. Every operation falls
// back to a per-user temporary location when the primary path fails.
//
// I/O and parse failures never surface as errors: loads return nil and saves
// return false, with the cause logged at debug level.
type FileStore struct {
	logger *log.Logger
}

// NewFileStore creates a file store. A nil logger discards output.
func NewFileStore(logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileStore{logger: logger}
}

// FallbackPath returns the temporary-directory location that mirrors primary.
func FallbackPath(primary string) string {
	name := filepath.Base(primary)
	if primary == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultFileName
	}
	return filepath.Join(os.TempDir(), name)
}

// LoadFile reads the document at path, or returns nil if it cannot.
func (s *FileStore) LoadFile(path string) *node.Node {
	if err := errors.ValidatePath(path); err != nil {
		s.logger.Debug("load skipped", "path", path, "err", err)
		return nil
	}
	root, err := stowio.ImportXML(path)
	if err != nil {
		s.logger.Debug("load failed", "path", path, "err", err)
		return nil
	}
	return root
}

// SaveFile writes root to path atomically and reports whether it succeeded.
func (s *FileStore) SaveFile(root *node.Node, path string) bool {
	_, err := s.write(root, path)
	if err != nil {
		s.logger.Debug("save failed", "path", path, "err", err)
		return false
	}
	return true
}

// write replaces path with the document through a synced temp file in the
// same directory, so a crash leaves either the old or the new file.
func (s *FileStore) write(root *node.Node, path string) (int, error) {
	if err := errors.ValidatePath(path); err != nil {
		return 0, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".stowage-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	if err := stowio.WriteXML(root, tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	info, err := tmp.Stat()
	if err != nil {
		return fail(fmt.Errorf("stat temp file: %w", err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(fmt.Errorf("chmod temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename temp file: %w", err)
	}
	return int(info.Size()), nil
}

// Load reads the primary file, then the fallback file. It returns nil when
// neither can be read.
func (s *FileStore) Load(primary string) *node.Node {
	if root := s.LoadFile(primary); root != nil {
		observability.Store().OnLoad(primary, false, true)
		return root
	}
	fallback := FallbackPath(primary)
	root := s.LoadFile(fallback)
	observability.Store().OnLoad(fallback, true, root != nil)
	if root != nil {
		s.logger.Debug("loaded from fallback", "path", fallback)
	}
	return root
}

// Save writes root to the primary file, then to the fallback file if the
// primary write fails. It reports whether either write succeeded.
func (s *FileStore) Save(root *node.Node, primary string) bool {
	size, err := s.write(root, primary)
	if err == nil {
		observability.Store().OnSave(primary, false, true, size)
		return true
	}
	s.logger.Debug("save failed", "path", primary, "err", err)

	fallback := FallbackPath(primary)
	size, err = s.write(root, fallback)
	if err != nil {
		s.logger.Debug("save failed", "path", fallback, "err", err)
		observability.Store().OnSave(fallback, true, false, 0)
		return false
	}
	s.logger.Debug("saved to fallback", "path", fallback)
	observability.Store().OnSave(fallback, true, true, size)
	return true
}

// Delete removes the primary and fallback files. Missing files are ignored.
func (s *FileStore) Delete(primary string) {
	for _, path := range []string{primary, FallbackPath(primary)} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Debug("delete failed", "path", path, "err", err)
			continue
		}
		observability.Store().OnDelete(path)
	}
}
