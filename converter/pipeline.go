package converter

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/navichat/vrmkit/glb"
	"github.com/navichat/vrmkit/mesh"
	"github.com/navichat/vrmkit/skeleton"
)

// Converter runs the avatar extraction pipeline: one GLB/VRM file in, OBJ
// submeshes plus a mesh manifest and a skeleton document out.
type Converter struct {
	config   *Config
	resolver *mesh.MaterialResolver
	taxonomy *skeleton.Taxonomy
}

type Result struct {
	Submeshes []*mesh.Submesh
	Manifest  *Manifest
	Skeleton  *SkeletonDocument
}

func NewConverter(config *Config) (*Converter, error) {
	if config == nil {
		config = &Config{}
	}
	if err := config.Resolve(); err != nil {
		return nil, err
	}
	resolver, err := mesh.NewMaterialResolver(config.textureOverrides())
	if err != nil {
		return nil, err
	}
	taxonomy, err := skeleton.NewTaxonomy()
	if err != nil {
		return nil, err
	}
	return &Converter{config: config, resolver: resolver, taxonomy: taxonomy}, nil
}

// Convert processes one file. Container, document and accessor errors abort
// the file; per-primitive damage is recorded in the manifest and skipped.
func (c *Converter) Convert(input string) (*Result, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	container, err := glb.ReadContainer(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	doc, err := glb.ParseDocument(container.JSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}

	subs, meshWarnings, err := c.partition(doc, container.Bin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}

	graph, err := skeleton.ExtractGraph(doc, c.taxonomy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	mapping, boneWarnings := skeleton.BuildMappingVocabulary(c.taxonomy, graph, skeleton.Vocabulary(c.config.Vocabulary))

	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		return nil, err
	}

	manifest := &Manifest{Source: filepath.Base(input)}
	for _, w := range meshWarnings {
		manifest.Warnings = append(manifest.Warnings, warningString(w))
	}
	for _, sub := range subs {
		category, texture := c.resolver.Resolve(sub.MaterialName)
		transform := c.config.UVTransformFor(category)
		for _, w := range mesh.ApplyUVTransform(sub, transform) {
			manifest.Warnings = append(manifest.Warnings, warningString(w))
		}

		filename := meshFilename(doc, sub, category, c.config.ObjPrefix)
		if err := writeFileAtomic(filepath.Join(c.config.OutputDir, filename), func(w io.Writer) error {
			return mesh.WriteOBJ(sub, w)
		}); err != nil {
			return nil, err
		}
		manifest.Entries = append(manifest.Entries, ManifestEntry{
			Filename:         filename,
			MeshIndex:        sub.MeshIndex,
			PrimitiveIndex:   sub.PrimitiveIndex,
			MaterialName:     sub.MaterialName,
			Category:         string(category),
			FaceCount:        len(sub.Faces),
			VertexCount:      len(sub.Positions),
			SuggestedTexture: texture,
			UVCorrection:     transform.String(),
		})
	}

	skeletonDoc := newSkeletonDocument(mapping, boneWarnings)
	if err := writeJSON(filepath.Join(c.config.OutputDir, "mesh_manifest.json"), manifest); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(c.config.OutputDir, "skeleton.json"), skeletonDoc); err != nil {
		return nil, err
	}
	if n := len(manifest.Warnings) + len(skeletonDoc.Warnings); n > 0 {
		log.Println(input+":", n, "warnings recorded")
	}
	return &Result{Submeshes: subs, Manifest: manifest, Skeleton: skeletonDoc}, nil
}

// partition extracts all primitives, fanning out across workers when
// configured. Workers share only the read-only document and blob; each owns
// its primitive and result slot, so output order stays deterministic.
func (c *Converter) partition(doc *glb.Document, bin []byte) ([]*mesh.Submesh, []mesh.Warning, error) {
	p := mesh.NewPartitioner(doc, bin)
	if c.config.Workers <= 1 {
		return p.PartitionAll()
	}

	type task struct {
		meshIndex, primIndex int
	}
	type slot struct {
		sub *mesh.Submesh
		err error
	}
	var tasks []task
	for mi, m := range doc.Meshes {
		for pi := range m.Primitives {
			tasks = append(tasks, task{mi, pi})
		}
	}
	slots := make([]slot, len(tasks))

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < c.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				sub, err := p.Partition(tasks[i].meshIndex, tasks[i].primIndex)
				slots[i] = slot{sub, err}
			}
		}()
	}
	for i := range tasks {
		queue <- i
	}
	close(queue)
	wg.Wait()

	var subs []*mesh.Submesh
	var warnings []mesh.Warning
	for i, s := range slots {
		if s.err != nil {
			kind := ""
			switch {
			case errors.Is(s.err, mesh.ErrMalformedPrimitive):
				kind = mesh.WarnMalformedPrimitive
			case errors.Is(s.err, mesh.ErrMissingRequiredAttribute):
				kind = mesh.WarnMissingRequiredAttribute
			default:
				return nil, nil, fmt.Errorf("mesh %d primitive %d: %w", tasks[i].meshIndex, tasks[i].primIndex, s.err)
			}
			warnings = append(warnings, mesh.Warning{
				Kind:           kind,
				MeshIndex:      tasks[i].meshIndex,
				PrimitiveIndex: tasks[i].primIndex,
				Detail:         s.err.Error(),
			})
			continue
		}
		subs = append(subs, s.sub)
	}
	return subs, warnings, nil
}

func warningString(w mesh.Warning) string {
	return fmt.Sprintf("%s: mesh %d primitive %d: %s", w.Kind, w.MeshIndex, w.PrimitiveIndex, w.Detail)
}

// meshFilename names an output file by source mesh, component category and
// primitive index ("body_skin_p0.obj"). A configured prefix replaces the
// mesh-derived one. The primitive index restarts per mesh, so multi-mesh
// documents carry the mesh index too: same-named meshes (or a fixed prefix)
// must never map two primitives to one file.
func meshFilename(doc *glb.Document, sub *mesh.Submesh, category mesh.Category, prefix string) string {
	if prefix == "" {
		prefix = strings.ToLower(doc.Meshes[sub.MeshIndex].Name)
		prefix = strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				return r
			}
			return '_'
		}, prefix)
	}
	if prefix == "" {
		prefix = fmt.Sprintf("mesh%d", sub.MeshIndex)
	}
	if len(doc.Meshes) > 1 {
		return fmt.Sprintf("%s_m%d_%s_p%d.obj", prefix, sub.MeshIndex, category, sub.PrimitiveIndex)
	}
	return fmt.Sprintf("%s_%s_p%d.obj", prefix, category, sub.PrimitiveIndex)
}
