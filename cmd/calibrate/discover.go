package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soltixdb/spectrocal/internal/services"
)

var measurementExtensions = map[string]bool{
	".txt": true,
	".csv": true,
	".tsv": true,
	".dat": true,
	".asc": true,
}

// discoverGroups maps a measurement directory to condition groups. Every
// subfolder is one condition holding its replicate files; a measurement file
// directly under root is a condition with a single replicate named after the file.
func discoverGroups(root string) ([]services.GroupInput, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var groups []services.GroupInput
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(root, name)

		if entry.IsDir() {
			files, err := measurementFiles(path)
			if err != nil {
				return nil, err
			}
			if len(files) == 0 {
				continue
			}
			groups = append(groups, services.GroupInput{Name: name, Paths: files})
			continue
		}

		if isMeasurementFile(name) {
			groups = append(groups, services.GroupInput{Name: name, Paths: []string{path}})
		}
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no measurement files under %s", root)
	}
	return groups, nil
}

func measurementFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !isMeasurementFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isMeasurementFile(name string) bool {
	return measurementExtensions[strings.ToLower(filepath.Ext(name))]
}
