package skeleton

import (
	"errors"
	"fmt"

	"github.com/navichat/vrmkit/geom"
)

// Vocabulary identifies a source naming convention for bones.
type Vocabulary string

const (
	// VocabHumanoid: scene-graph humanoid names ("hips", "J_Bip_L_UpperArm").
	VocabHumanoid Vocabulary = "humanoid"
	// VocabMocap: motion-capture channel names ("LeftArm", "Hips").
	VocabMocap Vocabulary = "mocap"
	// VocabRigTool: rig-tool export names ("CC_Base_L_Upperarm").
	VocabRigTool Vocabulary = "rigtool"
)

type JointType string

const (
	JointFixed    JointType = "fixed"
	JointRevolute JointType = "revolute"
)

// AxisLimits holds per-axis rotation limits in degrees, XYZ order.
type AxisLimits struct {
	Lower [3]float64 `json:"lower"`
	Upper [3]float64 `json:"upper"`
}

type CanonicalBone struct {
	Name     string                  `json:"name"`
	Aliases  map[Vocabulary][]string `json:"aliases"`
	Parent   string                  `json:"parent,omitempty"`
	Children []string                `json:"children"`

	Offset   geom.Vector3    `json:"offset"`
	Rotation geom.Quaternion `json:"rotation"`

	JointType JointType  `json:"joint_type"`
	Limits    AxisLimits `json:"limits"`
	Channels  []string   `json:"channels"`
	DOF       int        `json:"dof"`
}

var (
	ErrAmbiguousBoneAlias = errors.New("ambiguous bone alias")
	ErrCyclicHierarchy    = errors.New("cyclic hierarchy")
)

// Taxonomy is the fixed canonical skeleton with validated alias tables.
type Taxonomy struct {
	Bones map[string]*CanonicalBone
	// Order is a stable depth-first walk of the canonical tree.
	Order    []string
	Root     string
	TotalDOF int

	aliases map[Vocabulary]map[string]string
}

// NewTaxonomy builds and validates the default canonical skeleton.
func NewTaxonomy() (*Taxonomy, error) {
	return buildTaxonomy(defaultBones())
}

func buildTaxonomy(bones []*CanonicalBone) (*Taxonomy, error) {
	t := &Taxonomy{
		Bones:   map[string]*CanonicalBone{},
		aliases: map[Vocabulary]map[string]string{},
	}
	for _, b := range bones {
		if _, exists := t.Bones[b.Name]; exists {
			return nil, fmt.Errorf("duplicate canonical bone %q", b.Name)
		}
		t.Bones[b.Name] = b
		t.TotalDOF += b.DOF
	}

	// Alias strings must be unique per vocabulary across the whole table.
	for _, b := range bones {
		for vocab, names := range b.Aliases {
			m := t.aliases[vocab]
			if m == nil {
				m = map[string]string{}
				t.aliases[vocab] = m
			}
			for _, name := range names {
				if owner, taken := m[name]; taken {
					return nil, fmt.Errorf("%w: %q claimed by both %q and %q in vocabulary %s",
						ErrAmbiguousBoneAlias, name, owner, b.Name, vocab)
				}
				m[name] = b.Name
			}
		}
	}

	// Exactly one root, every parent link resolvable, and parent chains
	// terminate at the root without revisiting a bone.
	for _, b := range bones {
		if b.Parent == "" {
			if t.Root != "" {
				return nil, fmt.Errorf("multiple root bones: %q and %q", t.Root, b.Name)
			}
			t.Root = b.Name
			continue
		}
		if _, ok := t.Bones[b.Parent]; !ok {
			return nil, fmt.Errorf("bone %q has unknown parent %q", b.Name, b.Parent)
		}
	}
	if t.Root == "" {
		return nil, fmt.Errorf("%w: no root bone", ErrCyclicHierarchy)
	}
	children := map[string][]string{}
	for _, b := range bones {
		steps := 0
		for cur := b; cur.Parent != ""; cur = t.Bones[cur.Parent] {
			steps++
			if steps > len(bones) {
				return nil, fmt.Errorf("%w: parent chain from %q never reaches %q", ErrCyclicHierarchy, b.Name, t.Root)
			}
		}
		if b.Parent != "" {
			children[b.Parent] = append(children[b.Parent], b.Name)
		}
	}
	for _, b := range bones {
		b.Children = children[b.Name]
	}

	// Declaration order within each child list follows the table, so the
	// walk is deterministic.
	var walk func(name string)
	walk = func(name string) {
		t.Order = append(t.Order, name)
		for _, c := range children[name] {
			walk(c)
		}
	}
	walk(t.Root)
	if len(t.Order) != len(bones) {
		return nil, fmt.Errorf("%w: %d of %d bones reachable from %q", ErrCyclicHierarchy, len(t.Order), len(bones), t.Root)
	}
	return t, nil
}

// Resolve maps a raw bone name from one vocabulary to its canonical name.
// It is a pure lookup: an unknown name is reported as not found, never
// guessed.
func (t *Taxonomy) Resolve(vocab Vocabulary, raw string) (string, bool) {
	name, ok := t.aliases[vocab][raw]
	return name, ok
}

// ResolveAny tries every vocabulary in a fixed order (humanoid, rig-tool,
// mocap) and reports which one matched.
func (t *Taxonomy) ResolveAny(raw string) (string, Vocabulary, bool) {
	for _, vocab := range []Vocabulary{VocabHumanoid, VocabRigTool, VocabMocap} {
		if name, ok := t.Resolve(vocab, raw); ok {
			return name, vocab, ok
		}
	}
	return "", "", false
}

// KnownAlias reports whether raw is an alias in any vocabulary.
func (t *Taxonomy) KnownAlias(raw string) bool {
	_, _, ok := t.ResolveAny(raw)
	return ok
}

func defaultBones() []*CanonicalBone {
	rot3 := []string{"Xrotation", "Yrotation", "Zrotation"}
	bone := func(name, parent string, aliases map[Vocabulary][]string, offset geom.Vector3, lower, upper [3]float64) *CanonicalBone {
		return &CanonicalBone{
			Name:      name,
			Parent:    parent,
			Aliases:   aliases,
			Offset:    offset,
			Rotation:  geom.Quaternion{W: 1},
			JointType: JointRevolute,
			Limits:    AxisLimits{Lower: lower, Upper: upper},
			Channels:  rot3,
			DOF:       3,
		}
	}

	hips := &CanonicalBone{
		Name: "hips",
		Aliases: map[Vocabulary][]string{
			VocabHumanoid: {"hips", "pelvis", "root", "J_Bip_C_Hips"},
			VocabMocap:    {"Hips"},
			VocabRigTool:  {"CC_Base_Hip", "CC_Base_Pelvis"},
		},
		Offset:    geom.Vector3{Z: 0.9},
		Rotation:  geom.Quaternion{W: 1},
		JointType: JointFixed,
		Limits:    AxisLimits{},
		Channels:  []string{"Xposition", "Yposition", "Zposition", "Xrotation", "Yrotation", "Zrotation"},
		DOF:       6,
	}

	return []*CanonicalBone{
		hips,
		bone("spine", "hips", map[Vocabulary][]string{
			VocabHumanoid: {"spine", "J_Bip_C_Spine"},
			VocabMocap:    {"Spine", "spine1"},
			VocabRigTool:  {"CC_Base_Spine01"},
		}, geom.Vector3{Z: 0.15}, [3]float64{-30, -45, -30}, [3]float64{30, 45, 30}),
		bone("chest", "spine", map[Vocabulary][]string{
			VocabHumanoid: {"chest", "upperChest", "J_Bip_C_Chest", "J_Bip_C_UpperChest"},
			VocabMocap:    {"Chest", "Spine1"},
			VocabRigTool:  {"CC_Base_Spine02"},
		}, geom.Vector3{Z: 0.2}, [3]float64{-20, -30, -20}, [3]float64{20, 30, 20}),
		bone("neck", "chest", map[Vocabulary][]string{
			VocabHumanoid: {"neck", "J_Bip_C_Neck"},
			VocabMocap:    {"Neck"},
			VocabRigTool:  {"CC_Base_Neck"},
		}, geom.Vector3{Z: 0.2}, [3]float64{-45, -60, -45}, [3]float64{45, 60, 45}),
		bone("head", "neck", map[Vocabulary][]string{
			VocabHumanoid: {"head", "J_Bip_C_Head"},
			VocabMocap:    {"Head"},
			VocabRigTool:  {"CC_Base_Head"},
		}, geom.Vector3{Z: 0.15}, [3]float64{-30, -45, -30}, [3]float64{30, 45, 30}),

		bone("leftShoulder", "chest", map[Vocabulary][]string{
			VocabHumanoid: {"leftShoulder", "J_Bip_L_Shoulder"},
			VocabMocap:    {"LeftShoulder", "LeftCollar"},
			VocabRigTool:  {"CC_Base_L_Clavicle"},
		}, geom.Vector3{X: -0.15, Z: 0.1}, [3]float64{-30, -30, -90}, [3]float64{30, 30, 90}),
		bone("leftUpperArm", "leftShoulder", map[Vocabulary][]string{
			VocabHumanoid: {"leftUpperArm", "J_Bip_L_UpperArm"},
			VocabMocap:    {"LeftArm", "LeftUpperArm"},
			VocabRigTool:  {"CC_Base_L_Upperarm"},
		}, geom.Vector3{X: -0.15, Z: -0.1}, [3]float64{-180, -90, -45}, [3]float64{180, 180, 180}),
		bone("leftLowerArm", "leftUpperArm", map[Vocabulary][]string{
			VocabHumanoid: {"leftLowerArm", "J_Bip_L_LowerArm"},
			VocabMocap:    {"LeftForeArm", "LeftLowerArm"},
			VocabRigTool:  {"CC_Base_L_Forearm"},
		}, geom.Vector3{Z: -0.3}, [3]float64{-135, -90, -90}, [3]float64{0, 90, 90}),
		bone("leftHand", "leftLowerArm", map[Vocabulary][]string{
			VocabHumanoid: {"leftHand", "J_Bip_L_Hand"},
			VocabMocap:    {"LeftHand"},
			VocabRigTool:  {"CC_Base_L_Hand"},
		}, geom.Vector3{Z: -0.25}, [3]float64{-90, -45, -45}, [3]float64{90, 45, 45}),

		bone("rightShoulder", "chest", map[Vocabulary][]string{
			VocabHumanoid: {"rightShoulder", "J_Bip_R_Shoulder"},
			VocabMocap:    {"RightShoulder", "RightCollar"},
			VocabRigTool:  {"CC_Base_R_Clavicle"},
		}, geom.Vector3{X: 0.15, Z: 0.1}, [3]float64{-30, -30, -90}, [3]float64{30, 30, 90}),
		bone("rightUpperArm", "rightShoulder", map[Vocabulary][]string{
			VocabHumanoid: {"rightUpperArm", "J_Bip_R_UpperArm"},
			VocabMocap:    {"RightArm", "RightUpperArm"},
			VocabRigTool:  {"CC_Base_R_Upperarm"},
		}, geom.Vector3{X: 0.15, Z: -0.1}, [3]float64{-180, -180, -180}, [3]float64{180, 90, 45}),
		bone("rightLowerArm", "rightUpperArm", map[Vocabulary][]string{
			VocabHumanoid: {"rightLowerArm", "J_Bip_R_LowerArm"},
			VocabMocap:    {"RightForeArm", "RightLowerArm"},
			VocabRigTool:  {"CC_Base_R_Forearm"},
		}, geom.Vector3{Z: -0.3}, [3]float64{-135, -90, -90}, [3]float64{0, 90, 90}),
		bone("rightHand", "rightLowerArm", map[Vocabulary][]string{
			VocabHumanoid: {"rightHand", "J_Bip_R_Hand"},
			VocabMocap:    {"RightHand"},
			VocabRigTool:  {"CC_Base_R_Hand"},
		}, geom.Vector3{Z: -0.25}, [3]float64{-90, -45, -45}, [3]float64{90, 45, 45}),

		bone("leftUpperLeg", "hips", map[Vocabulary][]string{
			VocabHumanoid: {"leftUpperLeg", "J_Bip_L_UpperLeg"},
			VocabMocap:    {"LeftUpLeg", "LeftThigh"},
			VocabRigTool:  {"CC_Base_L_Thigh"},
		}, geom.Vector3{X: -0.1, Z: -0.1}, [3]float64{-120, -45, -45}, [3]float64{30, 45, 45}),
		bone("leftLowerLeg", "leftUpperLeg", map[Vocabulary][]string{
			VocabHumanoid: {"leftLowerLeg", "J_Bip_L_LowerLeg"},
			VocabMocap:    {"LeftLeg", "LeftShin"},
			VocabRigTool:  {"CC_Base_L_Calf"},
		}, geom.Vector3{Z: -0.4}, [3]float64{-135, -10, -10}, [3]float64{0, 10, 10}),
		bone("leftFoot", "leftLowerLeg", map[Vocabulary][]string{
			VocabHumanoid: {"leftFoot", "J_Bip_L_Foot"},
			VocabMocap:    {"LeftFoot"},
			VocabRigTool:  {"CC_Base_L_Foot"},
		}, geom.Vector3{Z: -0.4}, [3]float64{-45, -30, -30}, [3]float64{45, 30, 30}),

		bone("rightUpperLeg", "hips", map[Vocabulary][]string{
			VocabHumanoid: {"rightUpperLeg", "J_Bip_R_UpperLeg"},
			VocabMocap:    {"RightUpLeg", "RightThigh"},
			VocabRigTool:  {"CC_Base_R_Thigh"},
		}, geom.Vector3{X: 0.1, Z: -0.1}, [3]float64{-120, -45, -45}, [3]float64{30, 45, 45}),
		bone("rightLowerLeg", "rightUpperLeg", map[Vocabulary][]string{
			VocabHumanoid: {"rightLowerLeg", "J_Bip_R_LowerLeg"},
			VocabMocap:    {"RightLeg", "RightShin"},
			VocabRigTool:  {"CC_Base_R_Calf"},
		}, geom.Vector3{Z: -0.4}, [3]float64{-135, -10, -10}, [3]float64{0, 10, 10}),
		bone("rightFoot", "rightLowerLeg", map[Vocabulary][]string{
			VocabHumanoid: {"rightFoot", "J_Bip_R_Foot"},
			VocabMocap:    {"RightFoot"},
			VocabRigTool:  {"CC_Base_R_Foot"},
		}, geom.Vector3{Z: -0.4}, [3]float64{-45, -30, -30}, [3]float64{45, 30, 30}),
	}
}
