package profile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SQLiteFile is the file name the sqlite backend uses inside a profile directory.
const SQLiteFile = "ProfileDB.sqlite"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore opens the named backend ("json" or "sqlite") under dir. The
// closer must be closed once the store is no longer used.
func OpenStore(backend, dir string) (Store, io.Closer, error) {
	switch backend {
	case "json", "":
		return JSONStore{Dir: dir}, nopCloser{}, nil
	case "sqlite":
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("profile: create %s: %w", dir, err)
		}
		s, err := OpenSQLite(filepath.Join(dir, SQLiteFile))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("profile: unknown backend %q", backend)
}
