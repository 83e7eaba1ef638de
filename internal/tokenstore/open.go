package tokenstore

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Open returns the store for the named backend along with a function
// releasing whatever resources it holds.
func Open(backend, dbPath string, logger zerolog.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case "", "keyring":
		return NewKeyring(logger), noop, nil
	case "sqlite":
		store, err := OpenSQLite(dbPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "memory":
		return NewMemory(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q, must be one of: keyring, sqlite, memory", backend)
	}
}
