package skeleton

import (
	"fmt"
	"strings"

	"github.com/navichat/vrmkit/geom"
	"github.com/navichat/vrmkit/glb"
)

// GraphNode is a bone-like scene-graph node with its local transform and a
// parent back-reference derived by inverting the children lists.
type GraphNode struct {
	Index       int
	Name        string
	Translation geom.Vector3
	Rotation    geom.Quaternion
	Children    []int
	Parent      int // -1 for roots
}

type Graph struct {
	Nodes map[int]*GraphNode
	Roots []int
	// Order is the depth-first visit order, stable for a given document.
	Order []int
}

// Lexical patterns that mark a node as bone-like even when it has no
// children (finger tips, hair ends, spring-bone leaves).
var bonePrefixes = []string{"J_Bip_", "J_Adj_", "J_Sec_", "CC_Base_"}

func hasBonePrefix(name string) bool {
	for _, p := range bonePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ExtractGraph walks the node hierarchy depth-first from the scene roots and
// collects bone-like nodes: nodes whose name matches a known alias or bone
// prefix, or interior nodes with children. Mesh-carrying leaves are not
// bones.
func ExtractGraph(doc *glb.Document, tax *Taxonomy) (*Graph, error) {
	g := &Graph{Nodes: map[int]*GraphNode{}}

	boneLike := func(n *glb.Node) bool {
		if tax != nil && tax.KnownAlias(n.Name) {
			return true
		}
		if hasBonePrefix(n.Name) {
			return true
		}
		return len(n.Children) > 0
	}

	roots := sceneRoots(doc)
	visited := map[int]bool{}
	var walk func(index, parent int) error
	walk = func(index, parent int) error {
		if visited[index] {
			return fmt.Errorf("%w: node %d (%q) reached twice", ErrCyclicHierarchy, index, doc.Nodes[index].Name)
		}
		visited[index] = true
		node := doc.Nodes[index]
		if boneLike(node) {
			// Exporters emit slightly denormalized rotations.
			rot := geom.Quaternion{X: node.Rotation[0], Y: node.Rotation[1], Z: node.Rotation[2], W: node.Rotation[3]}
			gn := &GraphNode{
				Index:       index,
				Name:        node.Name,
				Translation: geom.Vector3{X: node.Translation[0], Y: node.Translation[1], Z: node.Translation[2]},
				Rotation:    *rot.Normalize(),
				Parent:      -1,
			}
			if p, ok := g.Nodes[parent]; ok {
				gn.Parent = parent
				p.Children = append(p.Children, index)
			} else {
				g.Roots = append(g.Roots, index)
			}
			g.Nodes[index] = gn
			g.Order = append(g.Order, index)
			parent = index
		}
		for _, c := range node.Children {
			if err := walk(c, parent); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(r, -1); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// sceneRoots returns the declared scene roots, falling back to nodes no
// other node claims as a child.
func sceneRoots(doc *glb.Document) []int {
	if doc.Scene != nil && len(doc.Scenes[*doc.Scene].Nodes) > 0 {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 && len(doc.Scenes[0].Nodes) > 0 {
		return doc.Scenes[0].Nodes
	}
	claimed := map[int]bool{}
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			claimed[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !claimed[i] {
			roots = append(roots, i)
		}
	}
	return roots
}
