package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/errors"
)

// ValidatePath checks an export destination before anything is written:
//   - no ".." component
//   - extension is one of exts (case-insensitive)
//   - the file sits directly in ~/.pintree/exports or an allowed_paths entry,
//     unless AllowUnsafePaths is set
//   - neither the file nor its parent directory is a symlink
//
// With no intermediate directories between the allowed dir and the file,
// only the final component can be swapped, and the O_NOFOLLOW open covers it.
func ValidatePath(path string, exts []string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if ext := strings.ToLower(filepath.Ext(cleaned)); !slices.Contains(exts, ext) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have one of the extensions %v", exts))
	}
	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if cfg == nil || !cfg.AllowUnsafePaths {
		allowed, err := allowedDirs(cfg)
		if err != nil {
			return err
		}
		parent := filepath.Dir(absPath)
		if !slices.Contains(allowed, parent) {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", allowed))
		}
		if isSymlink(parent) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	// Also enforced by O_NOFOLLOW at open; this gives a clearer message.
	if isSymlink(absPath) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// allowedDirs returns the default exports dir plus every absolute
// allowed_paths entry, cleaned. Entries that are themselves symlinks are
// resolved so a file under the real target matches.
func allowedDirs(cfg *config.Config) ([]string, error) {
	def, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{def}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	for i, d := range dirs {
		if !isSymlink(d) {
			continue
		}
		resolved, err := filepath.EvalSymlinks(d)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
		}
		dirs[i] = resolved
	}
	return dirs, nil
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// DefaultExportsDir returns ~/.pintree/exports.
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".pintree", "exports"), nil
}

// containsTraversal reports whether any component of path is "..".
// Forward slashes count as separators on every platform.
func containsTraversal(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// SanitizeForFilename turns s into a single safe path component: separators
// and ".." become dashes, control characters are dropped, and dash runs
// collapse. An empty result becomes "unnamed".
func SanitizeForFilename(s string) string {
	s = strings.NewReplacer("/", "-", "\\", "-", "..", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '-' }), "-")
	if s == "" {
		return "unnamed"
	}
	return s
}
