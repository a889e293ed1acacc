package rpmq

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/calvinalkan/rpmq/internal/config"
	"github.com/calvinalkan/rpmq/internal/store"
)

// Options configures opening the database.
//
// The zero value opens using the default configuration location. Options
// exists so that open can grow new knobs without breaking callers; the
// config path is currently the only one.
type Options struct {
	// Config is an explicit path to a configuration file.
	//
	// Empty means the default location ($RPMQ_CONFIG, then
	// ~/.config/rpmq/config.json, then built-in defaults). An explicit
	// path must exist; the default-location file is optional.
	Config string
}

// Db is a handle to the process-wide open database.
//
// A Db must be obtained via [Open]; the zero value is not usable.
type Db struct {
	_ [0]func() // prevent external construction

	dbpath string
}

// Open opens the database described by opts.
//
// The configuration is read first; its dbpath then drives database
// initialization. Everything fails before any cursor is created: a missing
// config path, a path that is not representable, or a database file that
// does not validate. A missing database file itself is not an error - the
// database is simply empty.
//
// The underlying state is process-wide. A second Open resolving to the same
// database path returns an equivalent handle; a second Open resolving to a
// different path fails with [ErrAlreadyOpen]. To switch configurations,
// close the open handle first.
//
// Possible errors: [ErrConfig], [ErrAlreadyOpen]. A damaged or unreadable
// database file additionally matches [ErrCorrupt] or [ErrIncompatible].
func Open(opts Options) (*Db, error) {
	if opts.Config != "" {
		if strings.IndexByte(opts.Config, 0) >= 0 {
			return nil, fmt.Errorf("%w: invalid path %q: embedded NUL byte", ErrConfig, opts.Config)
		}

		// Check existence first to produce an attributable error instead
		// of an opaque initialization failure.
		_, statErr := os.Stat(opts.Config)
		if os.IsNotExist(statErr) {
			return nil, fmt.Errorf("%w: no such file: %s", ErrConfig, opts.Config)
		}

		if statErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, statErr)
		}
	}

	cfg, err := config.Read(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if strings.IndexByte(cfg.DBPath, 0) >= 0 {
		return nil, fmt.Errorf("%w: invalid dbpath %q: embedded NUL byte", ErrConfig, cfg.DBPath)
	}

	configureErr := store.Configure(cfg.DBPath)
	if configureErr != nil {
		if errors.Is(configureErr, store.ErrAlreadyConfigured) {
			return nil, fmt.Errorf("%w: %w", ErrAlreadyOpen, configureErr)
		}

		configureErr = publicErr(configureErr)

		if opts.Config != "" {
			return nil, fmt.Errorf("%w: error reading database from %s: %w", ErrConfig, opts.Config, configureErr)
		}

		return nil, fmt.Errorf("%w: error reading database from default location: %w", ErrConfig, configureErr)
	}

	return &Db{dbpath: cfg.DBPath}, nil
}

// publicErr layers the package's public sentinels over errors carried out of
// the internal store, which callers cannot import to match against.
func publicErr(err error) error {
	switch {
	case errors.Is(err, store.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	case errors.Is(err, store.ErrIncompatible):
		return fmt.Errorf("%w: %w", ErrIncompatible, err)
	default:
		return err
	}
}

// DBPath returns the database path this handle was opened against.
func (db *Db) DBPath() string {
	return db.dbpath
}

// Close releases the database and returns the process to the unopened
// state, after which [Open] may establish a different configuration.
//
// Fails with [ErrBusy] while iterators are live. Closing twice is a no-op.
func (db *Db) Close() error {
	err := store.Close()
	if err != nil {
		if errors.Is(err, store.ErrBusy) {
			return fmt.Errorf("%w: %w", ErrBusy, err)
		}

		return err
	}

	return nil
}
