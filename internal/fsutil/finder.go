// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FindFilesByExtension returns every file under root whose name ends with one
// of the given extensions, in lexical order. If root is itself a file, it is
// returned when its extension matches.
func FindFilesByExtension(fsys billy.Filesystem, root string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	match := func(name string) bool {
		return slices.ContainsFunc(extensions, func(ext string) bool {
			return strings.HasSuffix(name, ext)
		})
	}

	var files []string
	err := util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && match(info.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}
