package rpmq

import "github.com/calvinalkan/rpmq/internal/tagid"

// Export internal functions for testing.
// This file is only compiled during tests.

// TagOfForTesting exposes the index-to-tag mapping.
func TagOfForTesting(i Index) tagid.Tag {
	return i.tag()
}

// AllIndexesForTesting lists every Index variant the mapping must cover.
func AllIndexesForTesting() []Index {
	return []Index{Name, Version, License, Summary, Description}
}
