package exmerge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverInputs lists .xlsx/.xlsm files directly inside dir, sorted by
// name. Office lock files (~$*) and files this pipeline writes are skipped.
func DiscoverInputs(dir string) ([]string, error) {
	return listDir(dir, func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".xlsm" {
			return false
		}
		return !strings.HasPrefix(name, "~$") && !isPipelineOutput(name)
	})
}

// DiscoverSplitFiles lists "*_SPLIT.{ext}" files directly inside dir,
// sorted by name.
func DiscoverSplitFiles(dir, ext string) ([]string, error) {
	suffix := SplitSuffix + "." + strings.TrimPrefix(ext, ".")
	return listDir(dir, func(name string) bool {
		return strings.HasSuffix(name, suffix) && !strings.HasPrefix(name, "~$")
	})
}

func isPipelineOutput(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, SplitSuffix) ||
		strings.HasPrefix(base, BatchPrefix) ||
		base == FinalBaseName
}

func listDir(dir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory %s: %v", ErrIO, dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !keep(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
