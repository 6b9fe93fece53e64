package viewer

import (
	"context"

	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/view"
)

// EventName is the socket.io event carrying node updates.
const EventName = "node_updated"

// Event describes one recomputed output buffer.
type Event struct {
	Graph    string  `json:"graph"`
	Node     string  `json:"node"`
	Port     string  `json:"port"`
	DataType string  `json:"data_type"`
	Min      float32 `json:"min"`
	Max      float32 `json:"max"`
	Checksum uint64  `json:"checksum"`

	// Presentation of the owning node.
	Category string     `json:"category"`
	Preview  string     `json:"preview"`
	Color    [3]float64 `json:"color"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
}

// Payload returns the event as a JSON-shaped map.
func (e Event) Payload() map[string]any {
	return map[string]any{
		"graph":     e.Graph,
		"node":      e.Node,
		"port":      e.Port,
		"data_type": e.DataType,
		"min":       e.Min,
		"max":       e.Max,
		"checksum":  e.Checksum,
		"category":  e.Category,
		"preview":   e.Preview,
		"color":     e.Color[:],
		"x":         e.X,
		"y":         e.Y,
	}
}

// Publisher delivers events to a viewer.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []Event) error { return nil }
func (NopPublisher) Close() error                           { return nil }

// Collect builds the events for every output of the given nodes, tagged
// with their view records. Unknown ids are skipped.
func Collect(v *view.View, nodeIDs []string) []Event {
	g := v.Graph()
	snap := g.Snapshot()
	var events []Event
	for _, id := range nodeIDs {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		for _, p := range n.Outputs() {
			e := Event{
				Graph:    g.ID().String(),
				Node:     id,
				Port:     p.Name(),
				DataType: p.DataType().String(),
				Checksum: snap[id][p.Name()],
			}
			if r, ok := v.Record(id); ok {
				e.Category = r.Category
				e.Preview = string(r.Preview)
				e.Color = [3]float64{r.Color.R, r.Color.G, r.Color.B}
				e.X, e.Y = r.X, r.Y
			}
			if buf, err := g.Output(id, p.Name()); err == nil {
				e.Min, e.Max = extent(buf)
			}
			events = append(events, e)
		}
	}
	return events
}

func extent(buf any) (float32, float32) {
	switch b := buf.(type) {
	case *hmap.HeightMap:
		return b.MinMax()
	case *hmap.Array:
		return b.MinMax()
	case *hmap.HeightMapRGB:
		lo, hi := b.R.MinMax()
		for _, ch := range []*hmap.HeightMap{&b.G, &b.B} {
			l, h := ch.MinMax()
			lo, hi = min(lo, l), max(hi, h)
		}
		return lo, hi
	}
	return 0, 0
}
