// rpmq-seed builds a Packages database file from a JSONC manifest.
//
// Usage:
//
//	rpmq-seed -o <db-file> <manifest.json>
//
// The manifest is an array of package objects (comments and trailing commas
// allowed):
//
//	[
//	    {
//	        "name": "rpm-devel",
//	        "version": "4.14.0",
//	        "release": "1.fc30",
//	        "arch": "x86_64",
//	        "license": "GPLv2+",
//	        "summary": "RPM development files",
//	        "description": "Headers and libraries for RPM development.",
//	    },
//	]
package main

import (
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/rpmq/internal/header"
	"github.com/calvinalkan/rpmq/internal/store"
	"github.com/calvinalkan/rpmq/internal/tagid"
)

// manifestPackage is one package entry in the manifest.
type manifestPackage struct {
	Name        string `json:"name"`
	Epoch       *int32 `json:"epoch,omitempty"`
	Version     string `json:"version"`
	Release     string `json:"release,omitempty"`
	Arch        string `json:"arch,omitempty"`
	License     string `json:"license,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Group       string `json:"group,omitempty"`
	SourceRPM   string `json:"sourcerpm,omitempty"`
	Size        int64  `json:"size,omitempty"`
	BuildTime   int64  `json:"buildtime,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rpmq-seed", flag.ContinueOnError)

	out := fs.StringP("output", "o", "Packages", "output database file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rpmq-seed -o <db-file> <manifest.json>")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 1 {
		fs.Usage()

		return 2
	}

	err := seed(fs.Arg(0), *out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpmq-seed: %v\n", err)

		return 1
	}

	return 0
}

func seed(manifestPath, dbPath string) error {
	data, err := os.ReadFile(manifestPath) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC manifest: %w", err)
	}

	var pkgs []manifestPackage

	unmarshalErr := json.Unmarshal(standardized, &pkgs)
	if unmarshalErr != nil {
		return fmt.Errorf("invalid manifest: %w", unmarshalErr)
	}

	blobs := make([][]byte, 0, len(pkgs))

	for i, pkg := range pkgs {
		if pkg.Name == "" {
			return fmt.Errorf("package %d: name is required", i)
		}

		if pkg.Version == "" {
			return fmt.Errorf("package %d (%s): version is required", i, pkg.Name)
		}

		blob, buildErr := buildBlob(pkg)
		if buildErr != nil {
			return fmt.Errorf("package %d (%s): %w", i, pkg.Name, buildErr)
		}

		blobs = append(blobs, blob)
	}

	createErr := store.Create(dbPath, blobs)
	if createErr != nil {
		return createErr
	}

	fmt.Printf("wrote %d packages to %s\n", len(blobs), dbPath)

	return nil
}

// buildBlob encodes one manifest entry as a header blob.
func buildBlob(pkg manifestPackage) ([]byte, error) {
	var b header.Builder

	b.SetString(tagid.Name, pkg.Name)
	b.SetString(tagid.Version, pkg.Version)

	if pkg.Release != "" {
		b.SetString(tagid.Release, pkg.Release)
	}

	if pkg.Arch != "" {
		b.SetString(tagid.Arch, pkg.Arch)
	}

	if pkg.License != "" {
		b.SetString(tagid.License, pkg.License)
	}

	if pkg.Summary != "" {
		b.SetI18NString(tagid.Summary, pkg.Summary)
	}

	if pkg.Description != "" {
		b.SetI18NString(tagid.Description, pkg.Description)
	}

	if pkg.URL != "" {
		b.SetString(tagid.URL, pkg.URL)
	}

	if pkg.Vendor != "" {
		b.SetString(tagid.Vendor, pkg.Vendor)
	}

	if pkg.Group != "" {
		b.SetString(tagid.Group, pkg.Group)
	}

	if pkg.SourceRPM != "" {
		b.SetString(tagid.SourceRPM, pkg.SourceRPM)
	}

	if pkg.Epoch != nil {
		b.SetInt32(tagid.Epoch, *pkg.Epoch)
	}

	if pkg.Size != 0 {
		b.SetInt64(tagid.Size, pkg.Size)
	}

	if pkg.BuildTime != 0 {
		b.SetInt32(tagid.BuildTime, int32(pkg.BuildTime))
	}

	return b.Build()
}
