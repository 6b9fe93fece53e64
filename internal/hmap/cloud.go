package hmap

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Point is a sample position in unit coordinates carrying a value.
type Point struct {
	X, Y, V float32
}

// Cloud is an unordered set of points.
type Cloud struct {
	Points []Point
}

// Add appends a point.
func (c *Cloud) Add(p Point) {
	c.Points = append(c.Points, p)
}

// Len returns the number of points.
func (c *Cloud) Len() int {
	return len(c.Points)
}

// Clone returns a deep copy.
func (c *Cloud) Clone() *Cloud {
	return &Cloud{Points: append([]Point(nil), c.Points...)}
}

// Path is an ordered polyline of points.
type Path struct {
	Points []Point
	Closed bool
}

// Len returns the number of vertices.
func (p *Path) Len() int {
	return len(p.Points)
}

// Clone returns a deep copy.
func (p *Path) Clone() *Path {
	return &Path{Points: append([]Point(nil), p.Points...), Closed: p.Closed}
}

// Checksum hashes the point sequence.
func (c *Cloud) Checksum() uint64 {
	return hashPoints(c.Points, false)
}

// Checksum hashes the vertices and the closed flag.
func (p *Path) Checksum() uint64 {
	return hashPoints(p.Points, p.Closed)
}

func hashPoints(pts []Point, closed bool) uint64 {
	f := fnv.New64a()
	var buf [12]byte
	for _, p := range pts {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(p.V))
		f.Write(buf[:])
	}
	if closed {
		f.Write([]byte{1})
	}
	return f.Sum64()
}
