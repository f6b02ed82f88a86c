package skeleton

import (
	"errors"
	"testing"

	"github.com/navichat/vrmkit/geom"
)

func TestNewTaxonomy(t *testing.T) {
	tax, err := NewTaxonomy()
	if err != nil {
		t.Fatal(err)
	}
	if len(tax.Bones) != 19 {
		t.Error("bone count:", len(tax.Bones))
	}
	if tax.Root != "hips" {
		t.Error("root:", tax.Root)
	}
	// 6 DOF root + 18 revolute bones.
	if tax.TotalDOF != 6+18*3 {
		t.Error("total dof:", tax.TotalDOF)
	}
	roots := 0
	for _, b := range tax.Bones {
		if b.Parent == "" {
			roots++
		}
	}
	if roots != 1 {
		t.Error("want exactly one root, got", roots)
	}
}

// Following parent links from any bone must reach the root within len(bones)
// steps.
func TestTaxonomy_ParentChainsTerminate(t *testing.T) {
	tax, _ := NewTaxonomy()
	for name, b := range tax.Bones {
		steps := 0
		for cur := b; cur.Parent != ""; cur = tax.Bones[cur.Parent] {
			steps++
			if steps > len(tax.Bones) {
				t.Fatalf("parent chain from %q does not terminate", name)
			}
		}
	}
}

func TestTaxonomy_ResolveVocabularies(t *testing.T) {
	tax, _ := NewTaxonomy()

	// The same canonical bone is reachable from every vocabulary.
	if name, ok := tax.Resolve(VocabRigTool, "CC_Base_L_Upperarm"); !ok || name != "leftUpperArm" {
		t.Error("rig-tool resolve:", name, ok)
	}
	if name, ok := tax.Resolve(VocabMocap, "LeftArm"); !ok || name != "leftUpperArm" {
		t.Error("mocap resolve:", name, ok)
	}
	if name, ok := tax.Resolve(VocabHumanoid, "J_Bip_L_UpperArm"); !ok || name != "leftUpperArm" {
		t.Error("humanoid resolve:", name, ok)
	}

	// No cross-vocabulary fallback.
	if _, ok := tax.Resolve(VocabMocap, "CC_Base_L_Upperarm"); ok {
		t.Error("rig-tool name must not resolve through mocap vocabulary")
	}
	if _, ok := tax.Resolve(VocabMocap, "LeftElbow"); ok {
		t.Error("unknown name must not resolve")
	}
}

func TestBuildTaxonomy_AmbiguousAlias(t *testing.T) {
	bones := defaultBones()
	// Claim an alias already owned by leftUpperArm in the same vocabulary.
	for _, b := range bones {
		if b.Name == "rightUpperArm" {
			b.Aliases[VocabMocap] = append(b.Aliases[VocabMocap], "LeftArm")
		}
	}
	if _, err := buildTaxonomy(bones); !errors.Is(err, ErrAmbiguousBoneAlias) {
		t.Error("duplicate alias should fail:", err)
	}
}

func TestBuildTaxonomy_SameAliasTwoVocabularies(t *testing.T) {
	// The same string may appear in different vocabularies.
	bones := []*CanonicalBone{
		{Name: "hips", Aliases: map[Vocabulary][]string{VocabHumanoid: {"hips"}, VocabMocap: {"Hips"}}, DOF: 6},
		{Name: "spine", Parent: "hips", Aliases: map[Vocabulary][]string{VocabHumanoid: {"Hips"}}, DOF: 3},
	}
	if _, err := buildTaxonomy(bones); err != nil {
		t.Error("cross-vocabulary reuse should build:", err)
	}
}

func TestBuildTaxonomy_Cycle(t *testing.T) {
	bones := []*CanonicalBone{
		{Name: "hips", DOF: 6},
		{Name: "a", Parent: "b", DOF: 3},
		{Name: "b", Parent: "a", DOF: 3},
	}
	if _, err := buildTaxonomy(bones); !errors.Is(err, ErrCyclicHierarchy) {
		t.Error("cycle should fail:", err)
	}
}

func TestBuildTaxonomy_TwoRoots(t *testing.T) {
	bones := []*CanonicalBone{
		{Name: "hips", DOF: 6},
		{Name: "chest", DOF: 3},
	}
	if _, err := buildTaxonomy(bones); err == nil {
		t.Error("two roots should fail")
	}
}

func TestTaxonomy_OrderStable(t *testing.T) {
	a, _ := NewTaxonomy()
	b, _ := NewTaxonomy()
	if len(a.Order) != len(b.Order) {
		t.Fatal("order length")
	}
	for i := range a.Order {
		if a.Order[i] != b.Order[i] {
			t.Fatal("walk order must be deterministic")
		}
	}
	if a.Order[0] != "hips" {
		t.Error("walk starts at root:", a.Order[0])
	}
}

func TestDefaultBones_RestPose(t *testing.T) {
	tax, _ := NewTaxonomy()
	if tax.Bones["hips"].Offset != (geom.Vector3{Z: 0.9}) {
		t.Error("hips rest offset:", tax.Bones["hips"].Offset)
	}
	if tax.Bones["hips"].JointType != JointFixed {
		t.Error("hips joint type:", tax.Bones["hips"].JointType)
	}
	if tax.Bones["leftLowerLeg"].JointType != JointRevolute {
		t.Error("limb joint type")
	}
}
