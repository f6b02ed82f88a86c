package skeleton

import (
	"errors"
	"math"
	"testing"

	"github.com/navichat/vrmkit/glb"
)

func node(name string, z float64, children ...int) *glb.Node {
	return &glb.Node{
		Name:        name,
		Translation: [3]float64{0, 0, z},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{1, 1, 1},
		Children:    children,
	}
}

// A small humanoid-ish scene: an armature root, a spine chain and a
// mesh-carrying leaf that must not be classified as a bone.
func sceneDoc() *glb.Document {
	meshIndex := 0
	s := 0
	doc := &glb.Document{
		Scene:  &s,
		Scenes: []*glb.Scene{{Nodes: []int{0}}},
		Nodes: []*glb.Node{
			node("Root", 0, 1, 5),
			node("J_Bip_C_Hips", 0.9, 2),
			node("J_Bip_C_Spine", 0.22, 3),
			node("J_Bip_L_UpperLeg", -0.1, 4),
			node("J_Sec_L_SkirtFront", -0.2),
			node("Face", 0),
		},
		Meshes: []*glb.Mesh{{Name: "Face"}},
	}
	doc.Nodes[5].Mesh = &meshIndex
	return doc
}

func TestExtractGraph(t *testing.T) {
	tax, _ := NewTaxonomy()
	g, err := ExtractGraph(sceneDoc(), tax)
	if err != nil {
		t.Fatal(err)
	}
	// The mesh leaf "Face" is not a bone.
	if _, ok := g.Nodes[5]; ok {
		t.Error("mesh leaf must not be collected")
	}
	// The childless spring-bone leaf is collected by its prefix.
	if _, ok := g.Nodes[4]; !ok {
		t.Error("J_Sec_ leaf should be collected")
	}
	if len(g.Roots) != 1 || g.Roots[0] != 0 {
		t.Error("roots:", g.Roots)
	}

	hips := g.Nodes[1]
	if hips.Parent != 0 {
		t.Error("hips parent:", hips.Parent)
	}
	if hips.Translation.Z != 0.9 {
		t.Error("hips translation:", hips.Translation)
	}
	spine := g.Nodes[2]
	if spine.Parent != 1 {
		t.Error("parent back-reference should follow the bone chain:", spine.Parent)
	}
}

func TestExtractGraph_NormalizesRotation(t *testing.T) {
	doc := sceneDoc()
	doc.Nodes[2].Rotation = [4]float64{0, 0, 2, 0}
	g, err := ExtractGraph(doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	q := g.Nodes[2].Rotation
	if math.Abs(q.Len()-1) > 1e-9 || q.Z != 1 {
		t.Error("rotation should be unit length:", q)
	}
}

func TestExtractGraph_Cycle(t *testing.T) {
	doc := sceneDoc()
	// Close a loop: spine's child list leads back to hips.
	doc.Nodes[2].Children = append(doc.Nodes[2].Children, 1)
	if _, err := ExtractGraph(doc, nil); !errors.Is(err, ErrCyclicHierarchy) {
		t.Error("cycle should fail:", err)
	}
}

func TestExtractGraph_DiamondParent(t *testing.T) {
	doc := sceneDoc()
	// Two parents claim the same child.
	doc.Nodes[0].Children = append(doc.Nodes[0].Children, 2)
	if _, err := ExtractGraph(doc, nil); !errors.Is(err, ErrCyclicHierarchy) {
		t.Error("node with two parents should fail:", err)
	}
}

func TestExtractGraph_NoScenes(t *testing.T) {
	doc := sceneDoc()
	doc.Scene = nil
	doc.Scenes = nil
	g, err := ExtractGraph(doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Roots) != 1 || g.Roots[0] != 0 {
		t.Error("unclaimed node should become the root:", g.Roots)
	}
}
