package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// envFlags maps environment variables to the flags they default.
var envFlags = map[string]string{
	"GRIDSCAN_WORKERS": "workers",
	"GRIDSCAN_FORMAT":  "format",
	"GRIDSCAN_IMAGES":  "images",
	"GRIDSCAN_VERBOSE": "verbose",
}

// loadEnv reads .env style files into the process environment. Missing files
// are ignored and variables already set win.
func loadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// applyEnv sets every flag the user left unset from its environment variable.
func applyEnv(flags *pflag.FlagSet) error {
	for env, name := range envFlags {
		value, ok := os.LookupEnv(env)
		if !ok || value == "" || flags.Lookup(name) == nil || flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}
