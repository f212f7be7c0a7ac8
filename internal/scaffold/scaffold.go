// Package scaffold creates a starter peoplelint workspace: settings,
// jurisdiction metadata and one example record that lints clean.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/peoplelint/internal/config"
	"github.com/dyluth/peoplelint/internal/metadata"
)

//go:embed templates/*
var templatesFS embed.FS

// ExamplePerson is the path of the example record, relative to the workspace.
var ExamplePerson = filepath.Join("data", "ex", "legislature", "Jane-Example-00000000-0000-4000-8000-000000000000.yml")

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Template    string
	Permissions os.FileMode
}

var files = []FileInfo{
	{Path: "settings.yml", Template: "templates/settings.yml.tmpl", Permissions: 0644},
	{Path: "jurisdictions.yml", Template: "templates/jurisdictions.yml.tmpl", Permissions: 0644},
	{Path: ExamplePerson, Template: "templates/person.yml.tmpl", Permissions: 0644},
}

// Initialize writes the workspace files under dir and returns their paths
// relative to dir. With force, existing files are overwritten.
func Initialize(dir string, force bool) ([]string, error) {
	if !force {
		if err := CheckExisting(dir); err != nil {
			return nil, err
		}
	}

	created := make([]string, 0, len(files))
	for _, f := range files {
		content, err := templatesFS.ReadFile(f.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", f.Path, err)
		}

		path := filepath.Join(dir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, content, f.Permissions); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		created = append(created, f.Path)
	}

	if err := validateCreatedFiles(dir); err != nil {
		return nil, err
	}
	return created, nil
}

// CheckExisting returns an error listing the workspace files already in dir.
func CheckExisting(dir string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f.Path)); err == nil {
			existing = append(existing, f.Path)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	errMsg := "workspace already initialized\n\nFound existing"
	if len(existing) == 1 {
		errMsg += fmt.Sprintf(": %s\n", existing[0])
	} else {
		errMsg += " files:\n"
		for _, file := range existing {
			errMsg += fmt.Sprintf("  - %s\n", file)
		}
	}
	errMsg += "\nUse 'peoplelint init --force' to overwrite them"
	return fmt.Errorf("%s", errMsg)
}

// validateCreatedFiles loads the written configuration the same way lint does
func validateCreatedFiles(dir string) error {
	if _, err := config.Load(filepath.Join(dir, "settings.yml")); err != nil {
		return fmt.Errorf("created settings.yml is invalid: %w", err)
	}
	if _, err := metadata.Load(filepath.Join(dir, "jurisdictions.yml")); err != nil {
		return fmt.Errorf("created jurisdictions.yml is invalid: %w", err)
	}
	return nil
}
