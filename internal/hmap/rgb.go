package hmap

// HeightMapRGB is a three-channel heightmap sharing a single layout.
type HeightMapRGB struct {
	R, G, B HeightMap
}

// SetSto (re)allocates all channels.
func (c *HeightMapRGB) SetSto(l Layout) error {
	for _, ch := range c.Channels() {
		if err := ch.SetSto(l); err != nil {
			return err
		}
	}
	return nil
}

// Channels returns the R, G and B channels in order.
func (c *HeightMapRGB) Channels() []*HeightMap {
	return []*HeightMap{&c.R, &c.G, &c.B}
}

// Layout returns the shared layout.
func (c *HeightMapRGB) Layout() Layout {
	return c.R.Layout
}

// Checksum combines the channel checksums.
func (c *HeightMapRGB) Checksum() uint64 {
	var sum uint64
	for k, ch := range c.Channels() {
		sum ^= ch.Checksum() << uint(k)
	}
	return sum
}
