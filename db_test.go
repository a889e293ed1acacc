// Database handle lifecycle: open preconditions, init-once semantics,
// close/reopen.
//
// Failures here mean: "Open accepted a bad configuration, produced the
// wrong error, or mishandled the process-wide singleton".

package rpmq_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/rpmq"
	"github.com/calvinalkan/rpmq/internal/store"
)

func Test_Open_Returns_ErrConfig_When_Explicit_Config_Path_Does_Not_Exist(t *testing.T) {
	resetStore(t)

	missing := filepath.Join(t.TempDir(), "nope", "config.json")
	opensBefore := store.Opens()

	_, err := rpmq.Open(rpmq.Options{Config: missing})

	require.Error(t, err)
	require.ErrorIs(t, err, rpmq.ErrConfig)

	// The error names the exact offending path.
	assert.Contains(t, err.Error(), missing)

	// The precondition check fires before native initialization.
	assert.Equal(t, opensBefore, store.Opens())
}

func Test_Open_Reports_The_Underlying_Stat_Error_When_Config_Path_Is_Unreadable(t *testing.T) {
	resetStore(t)

	// A path routed through a regular file fails stat with ENOTDIR, which is
	// not the same condition as a missing file and must not be reported as
	// one.
	obstruction := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, obstruction, "plain file")

	_, err := rpmq.Open(rpmq.Options{Config: filepath.Join(obstruction, "config.json")})

	require.ErrorIs(t, err, rpmq.ErrConfig)
	assert.NotContains(t, err.Error(), "no such file")
}

func Test_Open_Returns_ErrConfig_When_Config_Path_Contains_NUL_Byte(t *testing.T) {
	resetStore(t)

	require.NotPanics(t, func() {
		_, err := rpmq.Open(rpmq.Options{Config: "/etc/rpmq/conf\x00ig.json"})
		require.ErrorIs(t, err, rpmq.ErrConfig)
		assert.Contains(t, err.Error(), "NUL")
	})
}

func Test_Open_Returns_ErrConfig_When_Config_File_Is_Invalid(t *testing.T) {
	resetStore(t)

	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, "{ not json at all")

	_, err := rpmq.Open(rpmq.Options{Config: path})

	require.ErrorIs(t, err, rpmq.ErrConfig)
	assert.Contains(t, err.Error(), path)
}

func Test_Open_Returns_ErrConfig_When_Database_File_Is_Corrupt(t *testing.T) {
	resetStore(t)

	dbpath := filepath.Join(t.TempDir(), "Packages")
	writeFile(t, dbpath, "this is not a database")

	_, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, dbpath)})

	require.ErrorIs(t, err, rpmq.ErrConfig)
	require.ErrorIs(t, err, rpmq.ErrCorrupt)
	assert.Contains(t, err.Error(), "error reading database")
}

func Test_Open_Returns_ErrIncompatible_When_Database_Format_Version_Is_Unknown(t *testing.T) {
	resetStore(t)

	dbpath := seedDB(t, seedPkg{name: "bash", version: "5.2"})

	data, err := os.ReadFile(dbpath) //nolint:gosec // test fixture
	require.NoError(t, err)

	// Format version lives at offset 4.
	data[4] = 99
	writeFile(t, dbpath, string(data))

	_, err = rpmq.Open(rpmq.Options{Config: writeConfig(t, dbpath)})

	require.ErrorIs(t, err, rpmq.ErrConfig)
	require.ErrorIs(t, err, rpmq.ErrIncompatible)
}

func Test_Open_Succeeds_When_Database_File_Is_Absent(t *testing.T) {
	resetStore(t)

	// A fresh system has no Packages file yet; the database is just empty.
	dbpath := filepath.Join(t.TempDir(), "Packages")

	db, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, dbpath)})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	pkgs, err := rpmq.InstalledPackages().Collect()
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func Test_Open_Parses_JSONC_Config_With_Comments_And_Trailing_Commas(t *testing.T) {
	resetStore(t)

	dbpath := seedDB(t, seedPkg{name: "zsh", version: "5.9"})

	db, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, dbpath)})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, dbpath, db.DBPath())
}

func Test_Open_Returns_ErrAlreadyOpen_When_Reopening_With_Different_Configuration(t *testing.T) {
	resetStore(t)

	first := seedDB(t, seedPkg{name: "bash", version: "5.2"})
	second := seedDB(t, seedPkg{name: "zsh", version: "5.9"})

	db, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, first)})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	_, err = rpmq.Open(rpmq.Options{Config: writeConfig(t, second)})
	require.ErrorIs(t, err, rpmq.ErrAlreadyOpen)
}

func Test_Open_Is_Idempotent_When_Configuration_Is_Unchanged(t *testing.T) {
	resetStore(t)

	dbpath := seedDB(t, seedPkg{name: "bash", version: "5.2"})
	cfg := writeConfig(t, dbpath)

	db1, err := rpmq.Open(rpmq.Options{Config: cfg})
	require.NoError(t, err)

	db2, err := rpmq.Open(rpmq.Options{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, db1.DBPath(), db2.DBPath())
	require.NoError(t, db1.Close())
}

func Test_Close_Returns_ErrBusy_When_Iterators_Are_Live(t *testing.T) {
	resetStore(t)

	dbpath := seedDB(t, seedPkg{name: "bash", version: "5.2"})

	db, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, dbpath)})
	require.NoError(t, err)

	it := rpmq.InstalledPackages()

	require.ErrorIs(t, db.Close(), rpmq.ErrBusy)

	require.NoError(t, it.Close())
	require.NoError(t, db.Close())
}

func Test_Close_Allows_Reopening_With_A_Different_Configuration(t *testing.T) {
	resetStore(t)

	first := seedDB(t, seedPkg{name: "bash", version: "5.2"})
	second := seedDB(t, seedPkg{name: "zsh", version: "5.9"})

	db, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, first)})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, second)})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db2.Close() })

	pkgs, err := rpmq.Name.Find("zsh").Collect()
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "zsh", pkgs[0].Name)
}

func Test_Close_Is_Idempotent(t *testing.T) {
	resetStore(t)

	dbpath := seedDB(t, seedPkg{name: "bash", version: "5.2"})

	db, err := rpmq.Open(rpmq.Options{Config: writeConfig(t, dbpath)})
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
