// Package sqlitepath locates the SQLite transcript database.
package sqlitepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/sdr/pkg/dotdir"
)

const dbName = "transcripts.db"

// DefaultSQLitePath is where recording commands create the database: next
// to the config in the resolved .sdr/ directory.
func DefaultSQLitePath(configDir string) (string, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbName), nil
}

// ResolveSQLitePath finds an existing database for reading commands.
func ResolveSQLitePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("SDR_SQLITE")); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New("could not find sdr transcript database; record a turn first or pass --sqlite")
}

func sqliteCandidates() []string {
	candidates := []string{
		filepath.Join(".sdr", dbName),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".sdr", dbName))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, "sdr", dbName))
	}

	return candidates
}
