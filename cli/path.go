package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/tjlang/pkg"
)

// configFile is the base name of the configuration file.
const configFile = "config.yaml"

const dirMode os.FileMode = 0o700

// configPath returns the configuration file path.
func configPath() string { return filepath.Join(pkg.ConfigDir(), configFile) }

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}

	return nil
}
