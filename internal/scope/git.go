package scope

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// GitDiff runs `git diff` with the given arguments and returns the raw output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// GitDiffBase returns the diff of the working tree against a base reference
// like "main" or "origin/main".
func GitDiffBase(repoDir, base string) (string, error) {
	return GitDiff(repoDir, "--merge-base", base)
}

// GitRepoRoot returns the top-level directory of the enclosing git repository.
func GitRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
