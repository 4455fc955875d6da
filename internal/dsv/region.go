package dsv

// Region identifies an addressing space of the grid.
type Region uint8

const (
	// RegionBody is the data cells.
	RegionBody Region = iota
	// RegionRowHeader is the row number column.
	RegionRowHeader
	// RegionColumnHeader is the header row.
	RegionColumnHeader
	// RegionCornerHeader is the top-left corner cell.
	RegionCornerHeader
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case RegionBody:
		return "body"
	case RegionRowHeader:
		return "row-header"
	case RegionColumnHeader:
		return "column-header"
	case RegionCornerHeader:
		return "corner-header"
	default:
		return "unknown"
	}
}

// ParseRegion converts a region name to a Region.
func ParseRegion(s string) (Region, bool) {
	switch s {
	case "body", "":
		return RegionBody, true
	case "row-header":
		return RegionRowHeader, true
	case "column-header":
		return RegionColumnHeader, true
	case "corner-header":
		return RegionCornerHeader, true
	default:
		return RegionBody, false
	}
}
