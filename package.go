package rpmq

import (
	"fmt"
	"time"

	"github.com/calvinalkan/rpmq/internal/header"
	"github.com/calvinalkan/rpmq/internal/tagid"
)

// Package is an owned, immutable snapshot of one database record's fields.
//
// Descriptors are produced fresh for every record an [Iter] yields; nothing
// in a Package aliases the iterator's internal buffer, so values may be
// retained indefinitely.
type Package struct {
	// Name is the package name.
	Name string

	// Epoch disambiguates version ordering across renumbering. Most
	// packages have none.
	Epoch *int32

	// Version is the upstream version.
	Version string

	// Release is the distribution release of this version.
	Release string

	// Arch is the target architecture. Empty for arch-independent records
	// such as imported signing keys.
	Arch string

	// License is the package license.
	License string

	// Summary is the one-line description.
	Summary string

	// Description is the long description.
	Description string

	// URL is the upstream homepage, if recorded.
	URL string

	// Vendor is the packaging vendor, if recorded.
	Vendor string

	// Group is the legacy package group, if recorded.
	Group string

	// SourceRPM names the source package this was built from.
	SourceRPM string

	// Size is the installed payload size in bytes.
	Size int64

	// BuildTime is when the package was built. Zero if unrecorded.
	BuildTime time.Time
}

// String formats the package as name-[epoch:]version-release[.arch].
func (p Package) String() string {
	s := p.Name + "-"

	if p.Epoch != nil {
		s += fmt.Sprintf("%d:", *p.Epoch)
	}

	s += p.Version + "-" + p.Release

	if p.Arch != "" {
		s += "." + p.Arch
	}

	return s
}

// packageFromHeader projects one raw record into an owned descriptor.
//
// Pure: absent fields project to zero values, malformed-field handling
// already happened when the record was decoded.
func packageFromHeader(h *header.Header) Package {
	var p Package

	p.Name, _ = h.String(tagid.Name)
	p.Version, _ = h.String(tagid.Version)
	p.Release, _ = h.String(tagid.Release)
	p.Arch, _ = h.String(tagid.Arch)
	p.License, _ = h.String(tagid.License)
	p.Summary, _ = h.String(tagid.Summary)
	p.Description, _ = h.String(tagid.Description)
	p.URL, _ = h.String(tagid.URL)
	p.Vendor, _ = h.String(tagid.Vendor)
	p.Group, _ = h.String(tagid.Group)
	p.SourceRPM, _ = h.String(tagid.SourceRPM)

	if epoch, ok := h.Int64(tagid.Epoch); ok {
		e := int32(epoch)
		p.Epoch = &e
	}

	if size, ok := h.Int64(tagid.Size); ok {
		p.Size = size
	}

	if built, ok := h.Int64(tagid.BuildTime); ok && built != 0 {
		p.BuildTime = time.Unix(built, 0).UTC()
	}

	return p
}
