package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ignored directories (exact match on folder name)
var ignoredDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"bin":          {},
	"obj":          {},
	".venv":        {},
	"venv":         {},
}

// documentExts are the extensions treated as network documents.
var documentExts = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// DetectNetworks walks root for network documents.
// It skips ignored directories and returns sorted paths.
func DetectNetworks(root string) ([]string, error) {
	var found []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if _, ok := ignoredDirs[info.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		if _, ok := documentExts[ext]; ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ensure deterministic order
	sort.Strings(found)
	return found, nil
}

// Filter decides whether a document found while searching a directory is
// kept. An error aborts the expansion.
type Filter func(path string) (bool, error)

// Expand resolves each argument to documents: files are kept as given and
// directories are searched with DetectNetworks, keeping only what keep
// accepts (all of it when keep is nil). A path reached twice, after
// cleaning, is listed once. Order follows the arguments.
func Expand(paths []string, keep Filter) ([]string, error) {
	var result []string
	seen := make(map[string]struct{})
	add := func(p string) {
		key := filepath.Clean(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		docs, err := DetectNetworks(p)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", p, err)
		}
		kept := 0
		for _, doc := range docs {
			if keep != nil {
				ok, err := keep(doc)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			add(doc)
			kept++
		}
		if kept == 0 {
			return nil, fmt.Errorf("no network documents found in %s", p)
		}
	}
	return result, nil
}
