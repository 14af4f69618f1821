package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateWatch()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.DataDir == c.Paths.StagingDir {
		return errors.New("paths.staging_dir must differ from paths.data_dir")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.Workers > 256 {
		return fmt.Errorf("import.workers %d exceeds the 256 worker ceiling", c.Import.Workers)
	}
	for _, ext := range c.Import.AudioExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("import.audio_extensions entry %q must be a dotted extension", ext)
		}
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceSeconds > 3600 {
		return errors.New("watch.debounce_seconds must be at most 3600")
	}
	return nil
}
