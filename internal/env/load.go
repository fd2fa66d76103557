// Package env loads credentials from a .env file into the process
// environment.
package env

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/davetashner/promptlab/internal/redact"
	"github.com/davetashner/promptlab/internal/testable"
)

// DefaultFile is the file loaded from the working directory at startup.
const DefaultFile = ".env"

// Load reads the dotenv file at path and sets each variable it defines.
// Variables already set in the environment win. A missing file is not an
// error.
func Load(fsys testable.FileSystem, path string) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, vars[k]); err != nil {
			return err
		}
	}

	// New key values must be picked up by the redactor.
	redact.Reload()
	return nil
}
