package builder

import (
	"fmt"

	"github.com/specialistvlad/terragridgo/internal/config"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/nodeid"
)

// FromGraph captures the current state of a graph as a document model.
// Nodes are ordered by id.
func FromGraph(g *graph.Graph) (*config.Model, error) {
	m := &config.Model{Layout: g.Layout()}
	for _, n := range g.Nodes() {
		doc, err := n.Attrs().Serialize()
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID(), err)
		}
		cn := &config.Node{
			Type:       n.Type(),
			ID:         n.ID(),
			Attributes: doc,
			Inputs:     make(map[string]nodeid.Address),
		}
		for _, p := range n.Inputs() {
			if up := p.Upstream(); up != nil {
				cn.Inputs[p.Name()] = nodeid.New(up.Node().ID(), up.Name())
			}
		}
		m.Nodes = append(m.Nodes, cn)
	}
	return m, nil
}
