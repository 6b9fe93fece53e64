package graph

import "fmt"

// DataType is the kind of buffer a port carries.
type DataType int

const (
	// DataArray is a single dense scalar array.
	DataArray DataType = iota
	// DataHeightMap is a tiled scalar heightmap.
	DataHeightMap
	// DataCloud is a point cloud.
	DataCloud
	// DataPath is an ordered polyline.
	DataPath
	// DataHeightMapRGB is a three-channel heightmap.
	DataHeightMapRGB
)

func (d DataType) String() string {
	switch d {
	case DataArray:
		return "array"
	case DataHeightMap:
		return "heightmap"
	case DataCloud:
		return "cloud"
	case DataPath:
		return "path"
	case DataHeightMapRGB:
		return "heightmap_rgb"
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// Direction tells whether a port consumes or produces data.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// State is the evaluation state of a node.
type State int

const (
	Dirty State = iota
	Computing
	Clean
)

func (s State) String() string {
	switch s {
	case Dirty:
		return "dirty"
	case Computing:
		return "computing"
	case Clean:
		return "clean"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
