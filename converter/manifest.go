package converter

import (
	"encoding/json"
	"io"
	"os"

	"github.com/navichat/vrmkit/skeleton"
)

// ManifestEntry describes one extracted mesh file for the loader that joins
// meshes, textures and components downstream.
type ManifestEntry struct {
	Filename         string `json:"filename"`
	MeshIndex        int    `json:"mesh_index"`
	PrimitiveIndex   int    `json:"primitive_index"`
	MaterialName     string `json:"material_name"`
	Category         string `json:"component_category"`
	FaceCount        int    `json:"face_count"`
	VertexCount      int    `json:"vertex_count"`
	SuggestedTexture string `json:"suggested_texture,omitempty"`
	UVCorrection     string `json:"uv_correction_applied"`
}

type Manifest struct {
	Source   string          `json:"source"`
	Entries  []ManifestEntry `json:"meshes"`
	Warnings []string        `json:"warnings,omitempty"`
}

// SkeletonDocument is the canonical bone table with resolved transforms,
// the derived joint descriptors and the alias trace for debugging.
type SkeletonDocument struct {
	Root       string                     `json:"root"`
	TotalDOF   int                        `json:"total_dof"`
	Bones      []*skeleton.CanonicalBone  `json:"bones"`
	Joints     []skeleton.JointDescriptor `json:"joints"`
	AliasTable map[string][]string        `json:"bone_alias_table"`
	Warnings   []string                   `json:"warnings,omitempty"`
}

func newSkeletonDocument(m *skeleton.Mapping, warnings []skeleton.Warning) *SkeletonDocument {
	doc := &SkeletonDocument{
		Root:       m.Root,
		TotalDOF:   m.TotalDOF,
		Joints:     skeleton.ExportJoints(m),
		AliasTable: m.AliasTable,
	}
	for _, name := range m.Order {
		doc.Bones = append(doc.Bones, m.Bones[name])
	}
	for _, w := range warnings {
		doc.Warnings = append(doc.Warnings, w.Kind+": "+w.Detail)
	}
	return doc
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}

// writeFileAtomic writes to a temporary sibling and renames on success, so
// an abandoned conversion never leaves a file that looks complete.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
