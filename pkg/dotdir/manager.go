// Package dotdir manages the .sdr/ and ~/.sdr directories.
//
// The directory holds the config file, the readline history of the chat
// REPL, the SQLite transcript database and the session state, which records
// the server session the chat command resumes.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName     = ".sdr"
	historyFile = "chat_history"
)

// Manager resolves the sdr directory and the files kept in it.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target resolves and creates the .sdr/ directory, returning its absolute
// path. An override wins, then ./.sdr when it already exists, then ~/.sdr.
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating sdr directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

// HistoryFile returns the path of the chat REPL's line history.
func (m *Manager) HistoryFile(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFile), nil
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	if info, err := os.Stat(dirName); err == nil && info.IsDir() {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return filepath.Join(cwd, dirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
