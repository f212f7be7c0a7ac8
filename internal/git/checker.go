package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Checker inspects the Git state of a data directory before files in it are
// rewritten.
type Checker struct {
	Dir string
}

// NewChecker creates a checker for dir.
func NewChecker(dir string) *Checker {
	return &Checker{Dir: dir}
}

func (c *Checker) git(args ...string) *exec.Cmd {
	return exec.Command("git", append([]string{"-C", c.Dir}, args...)...)
}

// IsGitRepository reports whether Dir is inside a Git work tree.
func (c *Checker) IsGitRepository() (bool, error) {
	err := c.git("rev-parse", "--git-dir").Run()
	if err != nil {
		// Check if error is because git command not found
		if _, ok := err.(*exec.Error); ok {
			return false, fmt.Errorf("git not found in PATH")
		}
		return false, nil
	}
	return true, nil
}

// IsWorkspaceClean returns true if Dir has no uncommitted changes.
// This includes staged, unstaged, and untracked files.
func (c *Checker) IsWorkspaceClean() (bool, error) {
	porcelain, err := c.status()
	if err != nil {
		return false, err
	}
	return porcelain == "", nil
}

// GetDirtyFiles returns a formatted list of uncommitted changes under Dir.
// Returns empty string if it is clean.
func (c *Checker) GetDirtyFiles() (string, error) {
	porcelain, err := c.status()
	if err != nil {
		return "", err
	}
	if porcelain == "" {
		return "", nil
	}

	var modified, untracked []string
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 3 {
			continue
		}
		status := line[:2]
		file := strings.TrimSpace(line[2:])

		if strings.HasPrefix(status, "??") {
			untracked = append(untracked, file)
		} else {
			modified = append(modified, file)
		}
	}

	var parts []string
	if len(modified) > 0 {
		parts = append(parts, "Uncommitted changes:")
		for _, file := range modified {
			parts = append(parts, fmt.Sprintf(" M %s", file))
		}
	}
	if len(untracked) > 0 {
		if len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, "Untracked files:")
		for _, file := range untracked {
			parts = append(parts, fmt.Sprintf("?? %s", file))
		}
	}

	return strings.Join(parts, "\n"), nil
}

// status runs git status limited to Dir.
func (c *Checker) status() (string, error) {
	output, err := c.git("status", "--porcelain", "--", ".").Output()
	if err != nil {
		return "", fmt.Errorf("failed to check Git status: %w", err)
	}
	return strings.TrimRight(string(output), "\n"), nil
}
