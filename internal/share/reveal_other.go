//go:build !darwin && !windows

package share

import "path/filepath"

// revealCommand defers to the desktop's default handler, which cannot select
// a single file, so files open their containing folder.
func revealCommand(path string, isDir bool) (string, []string) {
	if !isDir {
		path = filepath.Dir(path)
	}
	return "xdg-open", []string{path}
}
