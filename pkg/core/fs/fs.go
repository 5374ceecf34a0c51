// Package fs provides the filesystem queries the sub applet needs.
// Applets should use this package instead of direct os calls.
package fs

import (
	"os"
	"sort"
	"strings"
)

// ReadDir reads directory contents.
func ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// ListDir returns the non-hidden entry names of dir in lexical order,
// the same set a shell expands a bare * to.
func ListDir(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
