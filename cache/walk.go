package cache

import (
	"os"
	"path/filepath"
	"sort"
)

// LexicographicFiles walks a directory tree breadth first. At each level the regular files come
// first, sorted by name, and then the subdirectories are queued, also sorted by name. The result
// does not depend on the order in which the operating system returns directory entries.
func LexicographicFiles(root string) ([]string, error) {
	var files []string
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		var subdirs []string
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				subdirs = append(subdirs, p)
			case e.Type().IsRegular():
				files = append(files, p)
			}
		}
		queue = append(queue, subdirs...)
	}
	return files, nil
}
