package mesh

import (
	"github.com/navichat/vrmkit/geom"
)

// Submesh is a self-contained extract of one primitive: a dense 0..n vertex
// space owning only the vertices its faces reference.
type Submesh struct {
	Positions []geom.Vector3
	Normals   []geom.Vector3 // empty when the primitive has no NORMAL stream
	UVs       []geom.Vector2 // empty when the primitive has no TEXCOORD_0 stream

	Faces [][3]uint32

	MeshIndex      int
	PrimitiveIndex int
	MaterialName   string
}

// Warning kinds recorded during extraction. They never abort a file.
const (
	WarnMalformedPrimitive       = "MalformedPrimitive"
	WarnMissingRequiredAttribute = "MissingRequiredAttribute"
	WarnSuspiciousUVRange        = "SuspiciousUVRange"
)

type Warning struct {
	Kind           string
	MeshIndex      int
	PrimitiveIndex int
	Detail         string
}
