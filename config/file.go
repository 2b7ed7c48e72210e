package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the config file written into the home directory when no
// file is active yet.
const DefaultFileName = ".tempoutils.yaml"

// ResolveFilePath picks the config file to operate on: an explicit
// --configFile value wins, then the file Viper actually loaded, then the
// default location in the home directory.
func ResolveFilePath(flagValue, activeFile string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	if strings.TrimSpace(activeFile) != "" {
		return activeFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// EnsureFileWithTemplate writes the example template to path unless a file is
// already there. It reports whether a new file was created.
func EnsureFileWithTemplate(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}
