package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/quizbook/internal/digest"
)

// AppName names the per-user data and state directories.
const AppName = "quizbook"

// Environment variables consulted when the matching flag is not set.
const (
	EnvDB       = "QUIZBOOK_DB"
	EnvBanks    = "QUIZBOOK_BANKS"
	EnvDigest   = "QUIZBOOK_DIGEST"
	EnvLogLevel = "QUIZBOOK_LOG_LEVEL"
	EnvLogFile  = "QUIZBOOK_LOG_FILE"
)

// Settings are the resolved global options shared by every command.
type Settings struct {
	DBPath   string
	BanksDir string
	Digest   string
	LogLevel string
	LogFile  string
}

// Resolve fills empty fields from the environment and XDG defaults, and
// validates the digest algorithm.
func Resolve(s Settings) (Settings, error) {
	if s.DBPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return s, err
		}
		s.DBPath = p
	}
	if s.BanksDir == "" {
		s.BanksDir = os.Getenv(EnvBanks)
	}
	if s.Digest == "" {
		s.Digest = os.Getenv(EnvDigest)
	}
	if s.Digest == "" {
		s.Digest = digest.Default
	}
	if _, err := digest.New(s.Digest); err != nil {
		return s, fmt.Errorf("resolve settings: %w", err)
	}
	s.Digest = strings.ToLower(strings.TrimSpace(s.Digest))
	if s.LogLevel == "" {
		s.LogLevel = os.Getenv(EnvLogLevel)
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.LogFile == "" {
		p, err := DefaultLogPath()
		if err != nil {
			return s, err
		}
		s.LogFile = p
	}
	return s, nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZBOOK_DB environment variable
// 2. $XDG_DATA_HOME/quizbook/quizbook.db
// 3. ~/.local/share/quizbook/quizbook.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, AppName+".db"), nil
}

// DefaultLogPath resolves the log file path: QUIZBOOK_LOG_FILE, then
// $XDG_STATE_HOME/quizbook/quizbook.log, then ~/.local/state/quizbook/quizbook.log.
func DefaultLogPath() (string, error) {
	if p := os.Getenv(EnvLogFile); p != "" {
		return p, nil
	}
	dir, err := xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, AppName+".log"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if d := os.Getenv(env); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, fallback), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
