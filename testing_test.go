package rpmq_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/rpmq/internal/header"
	"github.com/calvinalkan/rpmq/internal/store"
	"github.com/calvinalkan/rpmq/internal/tagid"
)

// The database is process-wide state, so tests in this package run serially
// against a store that is reset around each test.

// resetStore puts the process-wide store into the unconfigured state and
// restores that state when the test finishes.
func resetStore(t *testing.T) {
	t.Helper()

	store.Reset()
	t.Cleanup(store.Reset)
}

// seedPkg describes one fixture record.
type seedPkg struct {
	name        string
	version     string
	release     string
	arch        string
	license     string
	summary     string
	description string
	epoch       *int32
}

// seedDB writes a database fixture and returns its path.
func seedDB(t *testing.T, pkgs ...seedPkg) string {
	t.Helper()

	blobs := make([][]byte, 0, len(pkgs))

	for _, p := range pkgs {
		var b header.Builder

		b.SetString(tagid.Name, p.name)
		b.SetString(tagid.Version, p.version)

		if p.release != "" {
			b.SetString(tagid.Release, p.release)
		}

		if p.arch != "" {
			b.SetString(tagid.Arch, p.arch)
		}

		if p.license != "" {
			b.SetString(tagid.License, p.license)
		}

		if p.summary != "" {
			b.SetI18NString(tagid.Summary, p.summary)
		}

		if p.description != "" {
			b.SetI18NString(tagid.Description, p.description)
		}

		if p.epoch != nil {
			b.SetInt32(tagid.Epoch, *p.epoch)
		}

		blob, err := b.Build()
		require.NoError(t, err)

		blobs = append(blobs, blob)
	}

	path := filepath.Join(t.TempDir(), "Packages")
	require.NoError(t, store.Create(path, blobs))

	return path
}

// writeConfig writes a JSONC config file pointing at dbpath and returns the
// config file path.
func writeConfig(t *testing.T, dbpath string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	content := "{\n    // test fixture\n    \"dbpath\": " + jsonString(dbpath) + ",\n}\n"

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func jsonString(s string) string {
	data, _ := json.Marshal(s)

	return string(data)
}
