package glb

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnsupportedSchema = errors.New("unsupported schema")

type Document struct {
	Scene       *int
	Scenes      []*Scene
	Nodes       []*Node
	Meshes      []*Mesh
	Accessors   []*Accessor
	BufferViews []*BufferView
	Buffers     []*Buffer
	Materials   []*Material

	// Top-level keys not modeled here (asset, skins, renderer extensions, ...)
	// are kept verbatim so downstream tools can still read them.
	Extras map[string]json.RawMessage
}

type Scene struct {
	Name  string `json:"name"`
	Nodes []int  `json:"nodes"`
}

type Node struct {
	Name        string          `json:"name"`
	Translation [3]float64      `json:"translation"`
	Rotation    [4]float64      `json:"rotation"` // x, y, z, w
	Scale       [3]float64      `json:"scale"`
	Children    []int           `json:"children"`
	Mesh        *int            `json:"mesh"`
	Extensions  json.RawMessage `json:"extensions,omitempty"`
	Extras      json.RawMessage `json:"extras,omitempty"`

	// Unmodeled keys (skin, camera, weights, ...) kept for downstream readers.
	Unknown map[string]json.RawMessage `json:"-"`
}

func (n *Node) UnmarshalJSON(data []byte) error {
	type node Node
	v := node{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	v.Unknown = unknownKeys(data, "name", "translation", "rotation", "scale", "children", "mesh", "extensions", "extras")
	*n = Node(v)
	return nil
}

type Mesh struct {
	Name       string       `json:"name"`
	Primitives []*Primitive `json:"primitives"`

	Unknown map[string]json.RawMessage `json:"-"`
}

func (m *Mesh) UnmarshalJSON(data []byte) error {
	type mesh Mesh
	var v mesh
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	v.Unknown = unknownKeys(data, "name", "primitives")
	*m = Mesh(v)
	return nil
}

// unknownKeys returns the raw object fields not listed in known, or nil.
func unknownKeys(data []byte, known ...string) map[string]json.RawMessage {
	var raw map[string]json.RawMessage
	if json.Unmarshal(data, &raw) != nil {
		return nil
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}

type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Material   *int           `json:"material"`
}

type Accessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri"`
}

type Material struct {
	Name       string          `json:"name"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// ParseDocument decodes the JSON chunk into a typed document and validates
// every cross reference. Unknown top-level fields land in Extras.
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSchema, err)
	}
	doc := &Document{Extras: map[string]json.RawMessage{}}
	known := map[string]interface{}{
		"scene":       &doc.Scene,
		"scenes":      &doc.Scenes,
		"nodes":       &doc.Nodes,
		"meshes":      &doc.Meshes,
		"accessors":   &doc.Accessors,
		"bufferViews": &doc.BufferViews,
		"buffers":     &doc.Buffers,
		"materials":   &doc.Materials,
	}
	for key, value := range raw {
		if dst, ok := known[key]; ok {
			if err := json.Unmarshal(value, dst); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedSchema, key, err)
			}
		} else {
			doc.Extras[key] = value
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks that every index reference points inside its target array.
func (doc *Document) Validate() error {
	checkIndex := func(what string, i, n int) error {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %s index %d out of range (%d entries)", ErrUnsupportedSchema, what, i, n)
		}
		return nil
	}
	for si, scene := range doc.Scenes {
		for _, n := range scene.Nodes {
			if err := checkIndex(fmt.Sprintf("scene[%d] root node", si), n, len(doc.Nodes)); err != nil {
				return err
			}
		}
	}
	if doc.Scene != nil {
		if err := checkIndex("default scene", *doc.Scene, len(doc.Scenes)); err != nil {
			return err
		}
	}
	for ni, node := range doc.Nodes {
		for _, c := range node.Children {
			if err := checkIndex(fmt.Sprintf("node[%d] child", ni), c, len(doc.Nodes)); err != nil {
				return err
			}
		}
		if node.Mesh != nil {
			if err := checkIndex(fmt.Sprintf("node[%d] mesh", ni), *node.Mesh, len(doc.Meshes)); err != nil {
				return err
			}
		}
	}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			what := fmt.Sprintf("mesh[%d] primitive[%d]", mi, pi)
			for attr, a := range prim.Attributes {
				if err := checkIndex(what+" attribute "+attr, a, len(doc.Accessors)); err != nil {
					return err
				}
			}
			if prim.Indices != nil {
				if err := checkIndex(what+" indices", *prim.Indices, len(doc.Accessors)); err != nil {
					return err
				}
			}
			if prim.Material != nil {
				if err := checkIndex(what+" material", *prim.Material, len(doc.Materials)); err != nil {
					return err
				}
			}
		}
	}
	for ai, acc := range doc.Accessors {
		if acc.BufferView != nil {
			if err := checkIndex(fmt.Sprintf("accessor[%d] bufferView", ai), *acc.BufferView, len(doc.BufferViews)); err != nil {
				return err
			}
		}
		if componentSize(acc.ComponentType) == 0 {
			return fmt.Errorf("%w: accessor[%d] unknown componentType %d", ErrUnsupportedSchema, ai, acc.ComponentType)
		}
		if componentCount(acc.Type) == 0 {
			return fmt.Errorf("%w: accessor[%d] unknown type %q", ErrUnsupportedSchema, ai, acc.Type)
		}
		if acc.ByteOffset < 0 || acc.Count < 0 {
			return fmt.Errorf("%w: accessor[%d] negative byteOffset %d or count %d", ErrUnsupportedSchema, ai, acc.ByteOffset, acc.Count)
		}
	}
	for bi, bv := range doc.BufferViews {
		if err := checkIndex(fmt.Sprintf("bufferView[%d] buffer", bi), bv.Buffer, len(doc.Buffers)); err != nil {
			return err
		}
		if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteStride < 0 {
			return fmt.Errorf("%w: bufferView[%d] negative byteOffset %d, byteLength %d or byteStride %d",
				ErrUnsupportedSchema, bi, bv.ByteOffset, bv.ByteLength, bv.ByteStride)
		}
	}
	return nil
}

// MaterialName returns the material name for a primitive, or "" if unset.
func (doc *Document) MaterialName(prim *Primitive) string {
	if prim.Material == nil {
		return ""
	}
	return doc.Materials[*prim.Material].Name
}
