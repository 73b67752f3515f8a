package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
)

// ExpandInputs resolves a user-supplied input list into a flat list of
// regular file paths. A path naming a regular file passes through
// unchanged; a path naming a directory is walked recursively (grounded on
// storage/fs.go's use of godirwalk.Walk) and every regular file beneath it
// is included, in lexicographic path order so job output is reproducible
// across runs on the same filesystem layout.
//
// This is an enrichment over the original crate, which only ever accepted
// file paths: real line-oriented corpora (transit feeds, sharded SQL
// dumps) are commonly delivered as a directory of files.
func ExpandInputs(inputs []string) ([]string, error) {
	var result []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", in, err)
		}

		if !info.IsDir() {
			result = append(result, in)
			continue
		}

		var files []string
		err = godirwalk.Walk(in, &godirwalk.Options{
			Unsorted: true,
			Callback: func(pathname string, dirent *godirwalk.Dirent) error {
				if dirent.IsDir() {
					return nil
				}
				files = append(files, pathname)
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", in, err)
		}
		sort.Strings(files)
		result = append(result, files...)
	}
	return result, nil
}

// AbsPaths resolves each of paths to an absolute path, stopping at the
// first path that cannot be resolved. Nothing in this module calls it.
func AbsPaths(paths []string) ([]string, error) {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		result = append(result, abs)
	}
	return result, nil
}
