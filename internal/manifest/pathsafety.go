package manifest

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathUnsafe is returned when a declared relative path fails the
// safety checks below.
var ErrPathUnsafe = errors.New("manifest: unsafe relative path")

// SafeRelativePath validates a manifest-declared relative path: it must
// be a slash-separated path with no absolute root, no ".." components,
// and no empty components (so neither "a//b" nor "a/./b" survive — the
// latter is rejected rather than silently cleaned, since a sender that
// means "a/b" should simply say so).
func SafeRelativePath(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty path", ErrPathUnsafe)
	}
	if path.IsAbs(p) || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: absolute path %q", ErrPathUnsafe, p)
	}
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "":
			return fmt.Errorf("%w: empty component in %q", ErrPathUnsafe, p)
		case ".", "..":
			return fmt.Errorf("%w: %q component in %q", ErrPathUnsafe, part, p)
		}
	}
	return nil
}

// ResolveUnderRoot validates relPath and joins it under root, refusing
// to return anything that would land outside root even after the join.
func ResolveUnderRoot(root, relPath string) (string, error) {
	if err := SafeRelativePath(relPath); err != nil {
		return "", err
	}
	root = filepath.Clean(root)
	full := filepath.Join(root, filepath.FromSlash(relPath))
	full = filepath.Clean(full)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes root %q", ErrPathUnsafe, relPath, root)
	}
	return full, nil
}
