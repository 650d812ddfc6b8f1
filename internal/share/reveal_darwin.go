//go:build darwin

package share

// revealCommand uses Finder; -R selects the file in its folder.
func revealCommand(path string, isDir bool) (string, []string) {
	if isDir {
		return "open", []string{path}
	}
	return "open", []string{"-R", path}
}
