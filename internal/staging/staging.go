// Package staging manages the transient workspaces archive imports extract
// into. Each import job gets a private directory removed when the job
// terminates; sweeps reclaim anything an interrupted process left behind.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// jobPrefix namespaces job workspaces inside the staging root so sweeps
// never touch foreign directories.
const jobPrefix = "job-"

// NewJobDir creates a private workspace for one import job.
func NewJobDir(stagingRoot, jobID string) (string, error) {
	if strings.TrimSpace(stagingRoot) == "" {
		return "", fmt.Errorf("staging root not configured")
	}
	dir := filepath.Join(stagingRoot, jobPrefix+jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory %s: %w", dir, err)
	}
	return dir, nil
}

// RemoveJobDir deletes a job workspace and everything under it.
func RemoveJobDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove staging directory %s: %w", dir, err)
	}
	return nil
}
