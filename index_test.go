// Tag mapping: totality and distinctness over the Index enumeration.

package rpmq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/rpmq"
	"github.com/calvinalkan/rpmq/internal/tagid"
)

func Test_Tag_Mapping_Is_Total_And_Distinct_Over_All_Indexes(t *testing.T) {
	t.Parallel()

	seen := make(map[tagid.Tag]rpmq.Index)

	for _, index := range rpmq.AllIndexesForTesting() {
		var tag tagid.Tag

		require.NotPanics(t, func() {
			tag = rpmq.TagOfForTesting(index)
		}, "mapping must be total for %v", index)

		prev, collides := seen[tag]
		require.False(t, collides, "indexes %v and %v map to the same tag %v", prev, index, tag)

		seen[tag] = index
	}

	assert.Len(t, seen, 5)
}

func Test_Tag_Mapping_Matches_Native_Tag_Domain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		index rpmq.Index
		tag   tagid.Tag
	}{
		{rpmq.Name, tagid.Name},
		{rpmq.Version, tagid.Version},
		{rpmq.License, tagid.License},
		{rpmq.Summary, tagid.Summary},
		{rpmq.Description, tagid.Description},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.tag, rpmq.TagOfForTesting(tc.index), "index %v", tc.index)
	}
}

func Test_Index_String_Names_The_Field(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Name", rpmq.Name.String())
	assert.Equal(t, "Description", rpmq.Description.String())
}
