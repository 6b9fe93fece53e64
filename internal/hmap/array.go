package hmap

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Array is a dense, row-major field of float32 samples. It is the
// scalar-array data unit and the per-tile view handed to tile functions.
type Array struct {
	Shape Vec2[int]
	Data  []float32
}

// NewArray allocates a zero-filled array.
func NewArray(shape Vec2[int]) *Array {
	return &Array{Shape: shape, Data: make([]float32, shape.X*shape.Y)}
}

// Constant allocates an array filled with v.
func Constant(shape Vec2[int], v float32) *Array {
	a := NewArray(shape)
	a.Fill(v)
	return a
}

// Len returns the number of samples.
func (a *Array) Len() int {
	return len(a.Data)
}

// At returns the sample at column i, row j.
func (a *Array) At(i, j int) float32 {
	return a.Data[j*a.Shape.X+i]
}

// Set stores v at column i, row j.
func (a *Array) Set(i, j int, v float32) {
	a.Data[j*a.Shape.X+i] = v
}

// AtClamped returns the sample nearest to (i, j) inside the array.
func (a *Array) AtClamped(i, j int) float32 {
	i = min(max(i, 0), a.Shape.X-1)
	j = min(max(j, 0), a.Shape.Y-1)
	return a.At(i, j)
}

// Fill overwrites every sample with v.
func (a *Array) Fill(v float32) {
	for k := range a.Data {
		a.Data[k] = v
	}
}

// MinMax returns the smallest and largest samples. An empty array yields 0, 0.
func (a *Array) MinMax() (float32, float32) {
	if len(a.Data) == 0 {
		return 0, 0
	}
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range a.Data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Sum returns the sum of all samples in float64 precision.
func (a *Array) Sum() float64 {
	var s float64
	for _, v := range a.Data {
		s += float64(v)
	}
	return s
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	c := &Array{Shape: a.Shape, Data: make([]float32, len(a.Data))}
	copy(c.Data, a.Data)
	return c
}

// Checksum hashes the samples bit for bit with FNV-1a.
func (a *Array) Checksum() uint64 {
	f := fnv.New64a()
	var buf [4]byte
	for _, v := range a.Data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		f.Write(buf[:])
	}
	return f.Sum64()
}
