// Package tagid defines the native tag identifiers used to address fields
// inside package header records.
//
// The values match the classic RPM header tag numbers so that databases
// seeded by this module stay readable by anything that speaks that tag
// domain. The set is closed: cursors and projections only ever consume the
// constants below.
package tagid

import "strconv"

// Tag identifies one addressable field in a header record.
type Tag uint32

// Header tags consumed by the query surface and the package projection.
const (
	Name        Tag = 1000
	Version     Tag = 1001
	Release     Tag = 1002
	Epoch       Tag = 1003
	Summary     Tag = 1004
	Description Tag = 1005
	BuildTime   Tag = 1006
	Size        Tag = 1009
	Vendor      Tag = 1011
	License     Tag = 1014
	Group       Tag = 1016
	URL         Tag = 1020
	Arch        Tag = 1022
	SourceRPM   Tag = 1044
)

// String returns the tag's symbolic name, or "Tag(n)" for unknown values.
func (t Tag) String() string {
	switch t {
	case Name:
		return "Name"
	case Version:
		return "Version"
	case Release:
		return "Release"
	case Epoch:
		return "Epoch"
	case Summary:
		return "Summary"
	case Description:
		return "Description"
	case BuildTime:
		return "BuildTime"
	case Size:
		return "Size"
	case Vendor:
		return "Vendor"
	case License:
		return "License"
	case Group:
		return "Group"
	case URL:
		return "URL"
	case Arch:
		return "Arch"
	case SourceRPM:
		return "SourceRPM"
	default:
		return "Tag(" + strconv.FormatUint(uint64(t), 10) + ")"
	}
}
