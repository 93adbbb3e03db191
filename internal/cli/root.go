package cli

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/spore/pkg/config"
)

// configNames are the file names searched, in order, when --config is not set.
var configNames = []string{"spore.toml", "spore.yaml", "spore.yml"}

// findConfig returns the first config file in dir, or "" if there is none.
func findConfig(dir string) string {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// loadConfig loads the --config file, or a discovered one from the working
// directory. Without either the built-in defaults stay in place.
func (c *CLI) loadConfig() error {
	path := c.ConfigPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		if path = findConfig(wd); path == "" {
			return nil
		}
	}

	f, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = f
	c.configFile = path
	return nil
}
