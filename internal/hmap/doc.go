// Package hmap provides the raster data units that flow through graph ports.
//
// A HeightMap is a rectangular field of float32 samples stored as a grid of
// overlapping tiles. Each tile owns a "core" block of the field and carries a
// border of samples that belong to its neighbours, so neighbourhood filters
// can run tile-locally. After any operation that reads a neighbourhood, the
// border samples must be reconciled with their owners by calling
// SmoothOverlapBuffers.
//
// Tile-level work is dispatched through Transform and Fill, which may run
// tiles concurrently. The result never depends on the number of workers.
package hmap
