// Package retire rewrites person files for people who have left office:
// active roles get an end date, contact details are dropped, and the file
// moves to the retired directory. Edits are made on the YAML node tree so
// key order and comments survive.
package retire

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/peoplelint/internal/lint"
)

// Options controls a retirement.
type Options struct {
	EndDate string // YYYY-MM-DD
	Reason  string // written to end_reason when set
	Death   bool   // also sets death_date
	// AsOf decides which roles are active; empty means today.
	AsOf string
}

// Person ends every active role in doc and returns how many were ended.
func Person(doc *yaml.Node, opts Options) (int, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return 0, fmt.Errorf("person document is not a mapping")
	}

	ended := 0
	if roles := lookup(root, "roles"); roles != nil && roles.Kind == yaml.SequenceNode {
		for _, role := range roles.Content {
			if role.Kind != yaml.MappingNode {
				continue
			}
			var decoded map[string]any
			if err := role.Decode(&decoded); err != nil {
				return ended, fmt.Errorf("failed to decode role: %w", err)
			}
			if !lint.RoleIsActive(decoded, opts.AsOf) {
				continue
			}
			set(role, "end_date", opts.EndDate)
			if opts.Reason != "" {
				set(role, "end_reason", opts.Reason)
			}
			ended++
		}
	}

	if opts.Death {
		set(root, "death_date", opts.EndDate)
	}
	remove(root, "contact_details")

	return ended, nil
}

// File retires the person stored at path and moves the file to the sibling
// retired directory. Returns the new path and the number of roles ended.
func File(path string, opts Options) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", 0, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	ended, err := Person(&doc, opts)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	newPath, err := Move(path)
	if err != nil {
		return "", ended, err
	}
	return newPath, ended, nil
}

// Move relocates a file from legislature/, executive/ or municipalities/ to
// the sibling retired/ directory.
func Move(path string) (string, error) {
	dir := filepath.Dir(path)
	switch filepath.Base(dir) {
	case "legislature", "executive", "municipalities":
	case "retired":
		return path, nil
	default:
		return "", fmt.Errorf("cannot retire %s: not in a person directory", path)
	}

	retiredDir := filepath.Join(filepath.Dir(dir), "retired")
	if err := os.MkdirAll(retiredDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create retired directory: %w", err)
	}

	newPath := filepath.Join(retiredDir, filepath.Base(path))
	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("failed to move %s: %w", path, err)
	}
	return newPath, nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func set(mapping *yaml.Node, key, value string) {
	if existing := lookup(mapping, key); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Value = value
		existing.Content = nil
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value},
	)
}

func remove(mapping *yaml.Node, key string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content = append(mapping.Content[:i], mapping.Content[i+2:]...)
			return
		}
	}
}
