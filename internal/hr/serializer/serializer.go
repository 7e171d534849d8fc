// Package serializer renders entities and their self-referential relations
// into nested documents. Recursion over the parent/children cycle is bounded
// by a depth guard and broken by direction-aware field suppression: walking
// upward drops the children field, walking downward drops the parent field.
package serializer

// DefaultMaxDepth bounds tree expansion when the caller does not override it.
const DefaultMaxDepth = 10

// Node is the view an entity exposes to the renderer.
type Node interface {
	// NodeID and NodeName feed the depth-guard stub representation.
	NodeID() uint
	NodeName() string
	// Attrs returns the scalar columns of the entity, keyed by their wire names.
	Attrs() map[string]any
	// Relations returns the non-tree relations to render as nested documents.
	Relations() []Relation
}

// TreeNode is implemented by entities with a self-referential parent
// relation. Flat entities render without parent/children fields.
type TreeNode interface {
	Node
	// TreeParent returns the parent node, or nil at the root of the forest.
	TreeParent() Node
	// TreeChildren returns the direct children of this node.
	TreeChildren() []Node
}

// Relation is a named single- or multi-valued reference to other entities.
type Relation struct {
	Name  string
	Node  Node
	Nodes []Node
	Many  bool
}

// Mode tells the renderer which direction it is currently walking.
type Mode int

const (
	ModeRoot Mode = iota
	ModeParent
	ModeChildren
)

// Options controls field projection and recursion depth for one render.
type Options struct {
	// Fields, when non-nil, is an allow-list: every field not named is dropped.
	Fields []string
	// Exclude drops the named fields, applied after the allow-list.
	Exclude []string
	// MaxDepth bounds parent/child hops; non-positive means DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

type projection struct {
	allow   map[string]struct{}
	deny    map[string]struct{}
	hasList bool
}

func newProjection(o Options) projection {
	p := projection{deny: make(map[string]struct{})}
	if o.Fields != nil {
		p.hasList = true
		p.allow = make(map[string]struct{}, len(o.Fields))
		for _, f := range o.Fields {
			p.allow[f] = struct{}{}
		}
	}
	for _, f := range o.Exclude {
		p.deny[f] = struct{}{}
	}
	return p
}

func (p projection) includes(name string) bool {
	if p.hasList {
		if _, ok := p.allow[name]; !ok {
			return false
		}
	}
	_, denied := p.deny[name]
	return !denied
}

// Render produces the nested document for n.
func Render(n Node, opts Options) map[string]any {
	if n == nil {
		return nil
	}
	return render(n, opts, newProjection(opts), ModeRoot, 0)
}

// RenderList renders each node as an independent root document.
func RenderList[N Node](nodes []N, opts Options) []map[string]any {
	proj := newProjection(opts)
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, render(n, opts, proj, ModeRoot, 0))
	}
	return out
}

func render(n Node, opts Options, proj projection, mode Mode, depth int) map[string]any {
	doc := make(map[string]any)
	for k, v := range n.Attrs() {
		if proj.includes(k) {
			doc[k] = v
		}
	}

	if tn, ok := n.(TreeNode); ok {
		if mode != ModeChildren && proj.includes("parent") {
			doc["parent"] = treeStep(tn.TreeParent(), opts, proj, ModeParent, depth)
		}
		if mode != ModeParent && proj.includes("children") {
			children := tn.TreeChildren()
			rendered := make([]any, 0, len(children))
			for _, c := range children {
				rendered = append(rendered, treeStep(c, opts, proj, ModeChildren, depth))
			}
			doc["children"] = rendered
		}
	}

	for _, rel := range n.Relations() {
		if !proj.includes(rel.Name) {
			continue
		}
		if rel.Many {
			nested := make([]any, 0, len(rel.Nodes))
			for _, rn := range rel.Nodes {
				nested = append(nested, render(rn, opts, proj, ModeRoot, depth))
			}
			doc[rel.Name] = nested
			continue
		}
		if rel.Node == nil {
			doc[rel.Name] = nil
			continue
		}
		doc[rel.Name] = render(rel.Node, opts, proj, ModeRoot, depth)
	}
	return doc
}

// treeStep expands one parent/child hop, degrading to the {id, name} stub
// once the depth budget is spent. Projection never applies to the stub.
func treeStep(n Node, opts Options, proj projection, mode Mode, depth int) any {
	if n == nil {
		return nil
	}
	if depth >= opts.maxDepth() {
		return Stub(n)
	}
	return render(n, opts, proj, mode, depth+1)
}

// Stub is the minimal representation emitted past the depth bound.
func Stub(n Node) map[string]any {
	return map[string]any{
		"id":   n.NodeID(),
		"name": n.NodeName(),
	}
}
