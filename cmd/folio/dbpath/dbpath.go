// Package dbpath resolves the on-disk locations of the folio databases.
package dbpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/foliohq/folio/pkg/dotdir"
)

const (
	contentDBName = "folio.db"
	vectorDBName  = "vectors.db"
	indexDirName  = "keyword.bleve"
)

// ResolveContentDB returns the SQLite content database path. An explicit
// override or the FOLIO_SQLITE environment variable wins; otherwise the
// database lives in the resolved .folio/ directory.
func ResolveContentDB(override, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("FOLIO_SQLITE")); envPath != "" {
		return envPath, nil
	}

	return inDotDir(configDir, contentDBName)
}

// ResolveVectorDB returns the sqlite-vec database path.
func ResolveVectorDB(override, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	return inDotDir(configDir, vectorDBName)
}

// ResolveIndexPath returns the Bleve keyword index path.
func ResolveIndexPath(override, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	return inDotDir(configDir, indexDirName)
}

func inDotDir(configDir, name string) (string, error) {
	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(target, name), nil
}
