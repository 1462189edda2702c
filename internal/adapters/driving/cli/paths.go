package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tempo-labs/tempo-cli/internal/core/ports/driven"
)

// resolveDBPath returns the store location. Precedence: the TEMPO_DB
// environment variable, then the configured database.path, then the
// XDG data directory.
func resolveDBPath(cfg driven.ConfigStore) string {
	if p := strings.TrimSpace(os.Getenv("TEMPO_DB")); p != "" {
		return p
	}
	if p := cfg.GetString("database.path"); p != "" {
		return p
	}

	base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// Last resort: relative to the working directory.
			return filepath.Join("tempo", "store.db")
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "tempo", "store.db")
}
