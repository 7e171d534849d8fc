package serializer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeTestNode is a self-referential node used to exercise recursion.
type treeTestNode struct {
	id       uint
	name     string
	code     string
	parent   *treeTestNode
	children []*treeTestNode
}

func (n *treeTestNode) NodeID() uint     { return n.id }
func (n *treeTestNode) NodeName() string { return n.name }

func (n *treeTestNode) Attrs() map[string]any {
	return map[string]any{"id": n.id, "name": n.name, "code": n.code}
}

func (n *treeTestNode) TreeParent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *treeTestNode) TreeChildren() []Node {
	out := make([]Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	return out
}

func (n *treeTestNode) Relations() []Relation { return nil }

// flatTestNode has no tree relation but carries a single reference.
type flatTestNode struct {
	id   uint
	name string
	ref  Node
}

func (n *flatTestNode) NodeID() uint           { return n.id }
func (n *flatTestNode) NodeName() string       { return n.name }
func (n *flatTestNode) Attrs() map[string]any  { return map[string]any{"id": n.id, "name": n.name} }
func (n *flatTestNode) Relations() []Relation {
	return []Relation{{Name: "company", Node: n.ref}}
}

// parentChain builds a lineage of depth nodes, returning the deepest one.
func parentChain(depth int) *treeTestNode {
	var parent *treeTestNode
	for i := 1; i <= depth; i++ {
		parent = &treeTestNode{id: uint(i), name: fmt.Sprintf("node-%d", i), parent: parent}
	}
	return parent
}

func TestRenderDepthGuardDegradesToStub(t *testing.T) {
	leaf := parentChain(15)

	doc := Render(leaf, Options{MaxDepth: 3})

	// Three full ancestor levels, then the stub.
	level := doc
	for i := 0; i < 3; i++ {
		next, ok := level["parent"].(map[string]any)
		require.True(t, ok, "level %d should be fully rendered", i+1)
		assert.Contains(t, next, "code", "full levels keep their scalar fields")
		level = next
	}

	stub, ok := level["parent"].(map[string]any)
	require.True(t, ok, "fourth ancestor should be present as a stub")
	assert.Len(t, stub, 2, "stub carries only id and name")
	assert.Contains(t, stub, "id")
	assert.Contains(t, stub, "name")
	assert.NotContains(t, stub, "parent", "stub must not recurse further")
}

func TestRenderRootOfForestHasNilParent(t *testing.T) {
	root := &treeTestNode{id: 1, name: "root"}
	doc := Render(root, Options{})
	assert.Nil(t, doc["parent"], "a root renders parent as null, not a stub")
}

func TestRenderModeSuppression(t *testing.T) {
	parent := &treeTestNode{id: 1, name: "parent"}
	node := &treeTestNode{id: 2, name: "node", parent: parent}
	child := &treeTestNode{id: 3, name: "child", parent: node}
	node.children = []*treeTestNode{child}
	parent.children = []*treeTestNode{node}

	doc := Render(node, Options{})

	up, ok := doc["parent"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, up, "children", "walking upward must drop the children field")
	assert.Contains(t, up, "parent", "upward walk keeps going up")

	down, ok := doc["children"].([]any)
	require.True(t, ok)
	require.Len(t, down, 1)
	childDoc := down[0].(map[string]any)
	assert.NotContains(t, childDoc, "parent", "walking downward must drop the parent field")
	assert.Contains(t, childDoc, "children", "downward walk keeps going down")
}

func TestRenderFieldsAllowList(t *testing.T) {
	node := &treeTestNode{id: 2, name: "node", parent: &treeTestNode{id: 1, name: "parent", code: "P1"}}

	doc := Render(node, Options{Fields: []string{"id", "name", "parent"}})

	assert.NotContains(t, doc, "code")
	up, ok := doc["parent"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, up, "code", "the allow-list applies at nested levels too")
	assert.Contains(t, up, "name")
}

func TestRenderExcludeAfterFields(t *testing.T) {
	node := &treeTestNode{id: 1, name: "node", code: "N1"}

	doc := Render(node, Options{Fields: []string{"id", "name", "code"}, Exclude: []string{"code", "children"}})

	assert.Contains(t, doc, "id")
	assert.Contains(t, doc, "name")
	assert.NotContains(t, doc, "code", "exclude wins over the allow-list")
	assert.NotContains(t, doc, "children")
}

func TestRenderProjectionNeverReachesStub(t *testing.T) {
	leaf := parentChain(3)

	doc := Render(leaf, Options{MaxDepth: 1, Fields: []string{"id", "parent"}})

	full, ok := doc["parent"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, full, "name", "projection applies to full levels")

	stub, ok := full["parent"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, stub, 2)
	assert.Contains(t, stub, "name", "stubs keep their name even when fields excludes it")
}

func TestRenderFlatNodeHasNoTreeFields(t *testing.T) {
	doc := Render(&flatTestNode{id: 1, name: "flat"}, Options{})
	assert.NotContains(t, doc, "parent")
	assert.NotContains(t, doc, "children")
}

func TestRenderNilSingleRelation(t *testing.T) {
	doc := Render(&flatTestNode{id: 1, name: "flat"}, Options{})
	val, ok := doc["company"]
	require.True(t, ok, "absent single relations render as explicit null")
	assert.Nil(t, val)
}

func TestRenderList(t *testing.T) {
	nodes := []*treeTestNode{
		{id: 1, name: "a"},
		{id: 2, name: "b"},
	}
	docs := RenderList(nodes, Options{})
	require.Len(t, docs, 2)
	assert.Equal(t, uint(1), docs[0]["id"])
	assert.Equal(t, uint(2), docs[1]["id"])
}

func TestRenderNil(t *testing.T) {
	assert.Nil(t, Render(nil, Options{}))
}
