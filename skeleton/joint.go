package skeleton

import (
	"github.com/navichat/vrmkit/geom"
)

// JointDescriptor is the engine-agnostic articulation record a physics or
// rendering engine consumes to build a rig. Derived once from a built
// Mapping; the exporter performs no simulation.
type JointDescriptor struct {
	ParentLink  string       `json:"parent_link"`
	ChildLink   string       `json:"child_link"`
	JointType   JointType    `json:"joint_type"`
	PivotOffset geom.Vector3 `json:"pivot_offset"`
	AxisLimits  AxisLimits   `json:"axis_limits"`
}

// ExportJoints emits one descriptor per non-root canonical bone, in the
// mapping's stable depth-first order.
func ExportJoints(m *Mapping) []JointDescriptor {
	joints := make([]JointDescriptor, 0, len(m.Order)-1)
	for _, name := range m.Order {
		bone := m.Bones[name]
		if bone.Parent == "" {
			continue
		}
		joints = append(joints, JointDescriptor{
			ParentLink:  bone.Parent,
			ChildLink:   bone.Name,
			JointType:   bone.JointType,
			PivotOffset: bone.Offset,
			AxisLimits:  bone.Limits,
		})
	}
	return joints
}
