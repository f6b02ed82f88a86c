package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/navichat/vrmkit/geom"
	"github.com/navichat/vrmkit/glb"
)

var (
	ErrMalformedPrimitive       = errors.New("malformed primitive")
	ErrMissingRequiredAttribute = errors.New("missing required attribute")
)

// Partitioner extracts per-primitive submeshes from a parsed document.
// Primitives of one mesh share the parent's vertex buffers; the partitioner
// copies only the vertices each primitive's faces reference and remaps the
// faces into that dense index space.
type Partitioner struct {
	doc *glb.Document
	bin []byte
}

func NewPartitioner(doc *glb.Document, bin []byte) *Partitioner {
	return &Partitioner{doc: doc, bin: bin}
}

// Partition extracts one primitive.
func (p *Partitioner) Partition(meshIndex, primIndex int) (*Submesh, error) {
	prim := p.doc.Meshes[meshIndex].Primitives[primIndex]
	if prim.Indices == nil {
		return nil, fmt.Errorf("%w: no indices accessor", ErrMalformedPrimitive)
	}
	indices, err := p.doc.ReadIndices(p.doc.Accessors[*prim.Indices], p.bin)
	if err != nil {
		return nil, err
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrMalformedPrimitive, len(indices))
	}
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("%w: POSITION", ErrMissingRequiredAttribute)
	}

	// Sorted set of the vertex indices this primitive actually uses.
	seen := map[uint32]bool{}
	for _, i := range indices {
		seen[i] = true
	}
	unique := make([]uint32, 0, len(seen))
	for i := range seen {
		unique = append(unique, i)
	}
	sort.Slice(unique, func(a, b int) bool { return unique[a] < unique[b] })

	remap := make(map[uint32]uint32, len(unique))
	for n, old := range unique {
		remap[old] = uint32(n)
	}

	posAcc := p.doc.Accessors[posIndex]
	positions, err := p.doc.ReadFloats(posAcc, p.bin)
	if err != nil {
		return nil, err
	}
	if len(unique) > 0 && int(unique[len(unique)-1]) >= posAcc.Count {
		return nil, fmt.Errorf("%w: face index %d out of range (%d vertices)",
			ErrMalformedPrimitive, unique[len(unique)-1], posAcc.Count)
	}

	sub := &Submesh{
		MeshIndex:      meshIndex,
		PrimitiveIndex: primIndex,
		MaterialName:   p.doc.MaterialName(prim),
		Positions:      make([]geom.Vector3, 0, len(unique)),
		Faces:          make([][3]uint32, 0, len(indices)/3),
	}
	for _, old := range unique {
		o := int(old) * 3
		sub.Positions = append(sub.Positions, geom.Vector3{X: positions[o], Y: positions[o+1], Z: positions[o+2]})
	}

	if normals, err := p.readOptional(prim, "NORMAL", unique); err != nil {
		return nil, err
	} else if normals != nil {
		sub.Normals = make([]geom.Vector3, 0, len(unique))
		for _, old := range unique {
			o := int(old) * 3
			sub.Normals = append(sub.Normals, geom.Vector3{X: normals[o], Y: normals[o+1], Z: normals[o+2]})
		}
	}
	if uvs, err := p.readOptional(prim, "TEXCOORD_0", unique); err != nil {
		return nil, err
	} else if uvs != nil {
		sub.UVs = make([]geom.Vector2, 0, len(unique))
		for _, old := range unique {
			o := int(old) * 2
			sub.UVs = append(sub.UVs, geom.Vector2{X: uvs[o], Y: uvs[o+1]})
		}
	}

	for i := 0; i < len(indices); i += 3 {
		sub.Faces = append(sub.Faces, [3]uint32{remap[indices[i]], remap[indices[i+1]], remap[indices[i+2]]})
	}
	return sub, nil
}

// readOptional decodes an optional attribute stream, or returns nil when the
// primitive does not carry it. A stream too short for the referenced indices
// is malformed.
func (p *Partitioner) readOptional(prim *glb.Primitive, attr string, unique []uint32) ([]float64, error) {
	accIndex, ok := prim.Attributes[attr]
	if !ok {
		return nil, nil
	}
	acc := p.doc.Accessors[accIndex]
	values, err := p.doc.ReadFloats(acc, p.bin)
	if err != nil {
		return nil, err
	}
	if len(unique) > 0 && int(unique[len(unique)-1]) >= acc.Count {
		return nil, fmt.Errorf("%w: %s stream has %d elements, face index %d referenced",
			ErrMalformedPrimitive, attr, acc.Count, unique[len(unique)-1])
	}
	return values, nil
}

// PartitionAll extracts every primitive of every mesh. Malformed primitives
// and primitives without POSITION are skipped and recorded; accessor and
// schema errors abort the file.
func (p *Partitioner) PartitionAll() ([]*Submesh, []Warning, error) {
	var subs []*Submesh
	var warnings []Warning
	for mi, m := range p.doc.Meshes {
		for pi := range m.Primitives {
			sub, err := p.Partition(mi, pi)
			if err != nil {
				switch {
				case errors.Is(err, ErrMalformedPrimitive):
					warnings = append(warnings, Warning{Kind: WarnMalformedPrimitive, MeshIndex: mi, PrimitiveIndex: pi, Detail: err.Error()})
				case errors.Is(err, ErrMissingRequiredAttribute):
					warnings = append(warnings, Warning{Kind: WarnMissingRequiredAttribute, MeshIndex: mi, PrimitiveIndex: pi, Detail: err.Error()})
				default:
					return nil, nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
				}
				continue
			}
			subs = append(subs, sub)
		}
	}
	return subs, warnings, nil
}
