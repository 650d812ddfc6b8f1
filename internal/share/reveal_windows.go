//go:build windows

package share

func revealCommand(path string, isDir bool) (string, []string) {
	if isDir {
		return "explorer", []string{path}
	}
	return "explorer", []string{"/select," + path}
}
