// Package dataset locates and decodes person data files on disk.
//
// Layout under the data root:
//
//	<root>/<abbr>/legislature/*.yml
//	<root>/<abbr>/executive/*.yml
//	<root>/<abbr>/retired/*.yml
//	<root>/<abbr>/municipalities/*.yml
//	<root>/<abbr>/organizations/*.yml
//	<root>/<abbr>/municipalities.yml   (municipality id allowlist)
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind is the sub-directory a file lives in.
type Kind string

const (
	KindLegislature    Kind = "legislature"
	KindExecutive      Kind = "executive"
	KindRetired        Kind = "retired"
	KindMunicipalities Kind = "municipalities"
	KindOrganizations  Kind = "organizations"
)

// File is a discovered record file.
type File struct {
	Path string
	Name string // base name, used as the report key
	Kind Kind
}

// Municipality is an entry of municipalities.yml.
type Municipality struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DataDir returns the directory holding one abbreviation's data.
func DataDir(root, abbr string) string {
	return filepath.Join(root, abbr)
}

// Abbreviations lists the abbreviation directories under root, sorted.
func Abbreviations(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data root: %w", err)
	}

	var abbrs []string
	for _, e := range entries {
		if e.IsDir() && e.Name()[0] != '.' {
			abbrs = append(abbrs, e.Name())
		}
	}
	sort.Strings(abbrs)
	return abbrs, nil
}

// Discover returns the YAML files of the requested kinds, in the order the
// kinds are given and sorted by name within each kind.
func Discover(root, abbr string, kinds ...Kind) ([]File, error) {
	var files []File
	for _, kind := range kinds {
		paths, err := filepath.Glob(filepath.Join(DataDir(root, abbr), string(kind), "*.yml"))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s files: %w", kind, err)
		}
		sort.Strings(paths)
		for _, p := range paths {
			files = append(files, File{Path: p, Name: filepath.Base(p), Kind: kind})
		}
	}
	return files, nil
}

// LoadRecord decodes a YAML file whose document is a mapping.
func LoadRecord(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var record map[string]any
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}
	if record == nil {
		return nil, fmt.Errorf("empty document %s", path)
	}
	return record, nil
}

// LoadMunicipalities reads <root>/<abbr>/municipalities.yml. A missing file
// yields no municipalities.
func LoadMunicipalities(root, abbr string) ([]Municipality, error) {
	path := filepath.Join(DataDir(root, abbr), "municipalities.yml")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read municipalities: %w", err)
	}

	var municipalities []Municipality
	if err := yaml.Unmarshal(data, &municipalities); err != nil {
		return nil, fmt.Errorf("failed to parse municipalities: %w", err)
	}
	return municipalities, nil
}

// MunicipalityIDs returns the ids of municipalities.
func MunicipalityIDs(municipalities []Municipality) []string {
	ids := make([]string, 0, len(municipalities))
	for _, m := range municipalities {
		ids = append(ids, m.ID)
	}
	return ids
}
