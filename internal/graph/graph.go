package graph

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/hmap"
)

// Link is a directed connection from an out-port to an in-port. Its ID is
// the hash id of the in-port, which can be fed by at most one link.
type Link struct {
	ID       uint64
	FromNode string
	FromPort string
	FromHash uint64
	ToNode   string
	ToPort   string
	ToHash   uint64
}

func (l *Link) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", l.FromNode, l.FromPort, l.ToNode, l.ToPort)
}

// Graph is a set of nodes joined by links.
type Graph struct {
	mu      sync.Mutex
	id      uuid.UUID
	layout  hmap.Layout
	counter uint64
	nodes   map[string]*Node
	links   map[uint64]*Link
	ports   map[uint64]*Port
	arena   *arena
}

// Option configures a Graph.
type Option func(*Graph)

// WithLayout sets the default layout handed to primitives.
func WithLayout(l hmap.Layout) Option {
	return func(g *Graph) { g.layout = l }
}

// DefaultLayout is used when no layout is configured.
var DefaultLayout = hmap.Layout{Shape: hmap.V2(256, 256), Tiling: hmap.V2(4, 4), Overlap: 0.25}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		id:     uuid.New(),
		layout: DefaultLayout,
		nodes:  make(map[string]*Node),
		links:  make(map[uint64]*Link),
		ports:  make(map[uint64]*Port),
		arena:  newArena(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the graph identifier.
func (g *Graph) ID() uuid.UUID { return g.id }

// Layout returns the default layout.
func (g *Graph) Layout() hmap.Layout {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.layout
}

// SetLayout changes the default layout and marks every node dirty.
func (g *Graph) SetLayout(l hmap.Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.layout.Equal(l) {
		return nil
	}
	g.layout = l
	for _, n := range g.nodes {
		n.state = Dirty
	}
	return nil
}

// NewID returns a fresh graph-unique number.
func (g *Graph) NewID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextID()
}

func (g *Graph) nextID() uint64 {
	g.counter++
	return g.counter
}

// AddNode creates a node of type t. An empty id is replaced with a fresh
// "<tag>_<n>" id. The new node is dirty.
func (g *Graph) AddNode(id string, t *NodeType) (*Node, error) {
	if t == nil || t.New == nil {
		return nil, fmt.Errorf("add node %q: node type has no operator", id)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("%s_%d", t.Tag, g.nextID())
	}
	if _, exists := g.nodes[id]; exists {
		return nil, fmt.Errorf("add node %q: %w", id, ErrDuplicateNode)
	}

	n := &Node{
		id:     id,
		typ:    t,
		graph:  g,
		byName: make(map[string]*Port, len(t.Ports)),
		op:     t.New(),
		state:  Dirty,
	}
	if t.Attributes != nil {
		n.attrs = t.Attributes()
	} else {
		n.attrs = attr.NewBag()
	}
	for _, spec := range t.Ports {
		if _, dup := n.byName[spec.Name]; dup {
			return nil, fmt.Errorf("add node %q: port %q declared twice by %s", id, spec.Name, t.Tag)
		}
		p := &Port{node: n, spec: spec, hashID: g.nextID()}
		n.ports = append(n.ports, p)
		n.byName[spec.Name] = p
	}

	for _, p := range n.ports {
		g.ports[p.hashID] = p
	}
	g.nodes[id] = n
	g.arena.alloc(n)
	return n, nil
}

// RemoveNode unlinks every port of the node and deletes it. Former
// consumers become dirty.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("remove node %q: %w", id, ErrUnknownNode)
	}
	for _, p := range n.ports {
		if p.spec.Direction == In {
			if p.upstream != nil {
				g.unlink(p)
			}
			continue
		}
		for _, in := range p.Consumers() {
			g.unlink(in)
			g.markDirty(in.node)
		}
	}
	for _, p := range n.ports {
		delete(g.ports, p.hashID)
	}
	g.arena.release(n)
	delete(g.nodes, id)
	return nil
}

func (g *Graph) lookupPort(nodeID, port string) (*Port, error) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	p, ok := n.byName[port]
	if !ok {
		return nil, fmt.Errorf("%w: %q on node %q (%s)", ErrUnknownPort, port, nodeID, n.typ.Tag)
	}
	return p, nil
}

// Link connects fromNode.fromPort to toNode.toPort and marks toNode and its
// downstream dirty. Nothing changes when an error is returned.
func (g *Graph) Link(fromNode, fromPort, toNode, toPort string) (*Link, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out, err := g.lookupPort(fromNode, fromPort)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}
	in, err := g.lookupPort(toNode, toPort)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}
	if out.spec.Direction != Out || in.spec.Direction != In {
		return nil, fmt.Errorf("link: %w: %s (%s) -> %s (%s)", ErrDirection, out, out.spec.Direction, in, in.spec.Direction)
	}
	if out.node == in.node || g.reaches(in.node, out.node) {
		return nil, fmt.Errorf("link %s -> %s: %w", out, in, ErrCycle)
	}
	if err := connect(out, in); err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}

	l := &Link{
		ID:       in.hashID,
		FromNode: fromNode,
		FromPort: fromPort,
		FromHash: out.hashID,
		ToNode:   toNode,
		ToPort:   toPort,
		ToHash:   in.hashID,
	}
	g.links[l.ID] = l
	g.markDirty(in.node)
	return l, nil
}

// Unlink removes the link between two ports and marks toNode and its
// downstream dirty.
func (g *Graph) Unlink(fromNode, fromPort, toNode, toPort string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	out, err := g.lookupPort(fromNode, fromPort)
	if err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	in, err := g.lookupPort(toNode, toPort)
	if err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	if in.upstream != out {
		return fmt.Errorf("unlink %s -> %s: %w", out, in, ErrNotLinked)
	}
	g.unlink(in)
	g.markDirty(in.node)
	return nil
}

// UnlinkByID removes a link by id.
func (g *Graph) UnlinkByID(id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.links[id]
	if !ok {
		return fmt.Errorf("unlink %d: %w", id, ErrNotLinked)
	}
	in := g.ports[l.ToHash]
	g.unlink(in)
	g.markDirty(in.node)
	return nil
}

func (g *Graph) unlink(in *Port) {
	disconnect(in)
	delete(g.links, in.hashID)
}

// markDirty marks n and every node reachable through its out-links dirty.
func (g *Graph) markDirty(n *Node) {
	n.state = Dirty
	for _, d := range g.downstream(n) {
		d.state = Dirty
	}
}

// downstream returns the nodes reachable from n, excluding n, sorted by id.
func (g *Graph) downstream(n *Node) []*Node {
	seen := map[*Node]bool{n: true}
	var out []*Node
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range cur.ports {
			for _, in := range p.consumer {
				if !seen[in.node] {
					seen[in.node] = true
					out = append(out, in.node)
					queue = append(queue, in.node)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// reaches reports whether to is downstream of from.
func (g *Graph) reaches(from, to *Node) bool {
	return slices.Contains(g.downstream(from), to)
}

// Downstream returns the ids of every node reachable from id through
// out-links, sorted.
func (g *Graph) Downstream(id string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	var ids []string
	for _, d := range g.downstream(n) {
		ids = append(ids, d.id)
	}
	return ids, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// MustNode returns the node with the given id and panics when it does not
// exist.
func (g *Graph) MustNode(id string) *Node {
	n, ok := g.Node(id)
	if !ok {
		panic(fmt.Sprintf("graph: unknown node %q", id))
	}
	return n
}

// Nodes returns all nodes sorted by id.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sortedNodes()
}

func (g *Graph) sortedNodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Links returns copies of all links sorted by id.
func (g *Graph) Links() []Link {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Link, 0, len(g.links))
	for _, l := range g.links {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LinkByID returns a copy of the link with the given id.
func (g *Graph) LinkByID(id uint64) (Link, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.links[id]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

// MustLink returns the link with the given id and panics when it does not
// exist.
func (g *Graph) MustLink(id uint64) Link {
	l, ok := g.LinkByID(id)
	if !ok {
		panic(fmt.Sprintf("graph: unknown link %d", id))
	}
	return l
}

// PortByHashID returns the port with the given hash id.
func (g *Graph) PortByHashID(hash uint64) (*Port, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.ports[hash]
	return p, ok
}

// Snapshot returns the checksum of every output buffer by node and port.
func (g *Graph) Snapshot() map[string]map[string]uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := make(map[string]map[string]uint64, len(g.nodes))
	for id, n := range g.nodes {
		ports := make(map[string]uint64)
		for _, p := range n.ports {
			if p.spec.Direction == Out {
				ports[p.spec.Name] = checksum(g.arena.get(p))
			}
		}
		snap[id] = ports
	}
	return snap
}

// Output returns the buffer of an out-port for reading outside evaluation,
// for instance by exporters and previews.
func (g *Graph) Output(nodeID, port string) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.lookupPort(nodeID, port)
	if err != nil {
		return nil, err
	}
	if p.spec.Direction != Out {
		return nil, fmt.Errorf("%w: %s is an in-port", ErrDirection, p)
	}
	return g.arena.get(p), nil
}
