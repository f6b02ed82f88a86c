package skeleton

import (
	"fmt"
)

const WarnUnresolvedBoneAlias = "UnresolvedBoneAlias"

type Warning struct {
	Kind   string
	Name   string
	Detail string
}

// Mapping is the canonical skeleton joined with the transforms of one
// extracted scene graph. It is built once per file and immutable afterwards.
type Mapping struct {
	Bones    map[string]*CanonicalBone
	Order    []string
	Root     string
	TotalDOF int

	// AliasTable records, per canonical bone, the raw scene-graph names that
	// resolved to it.
	AliasTable map[string][]string
}

// BuildMapping resolves every bone-like graph node against the taxonomy,
// trying all vocabularies, and overrides the canonical rest transforms with
// the resolved node's local transform. Bone-named nodes that resolve nowhere
// are reported, not merged into an arbitrary bone.
func BuildMapping(tax *Taxonomy, g *Graph) (*Mapping, []Warning) {
	return BuildMappingVocabulary(tax, g, "")
}

// BuildMappingVocabulary is BuildMapping restricted to one vocabulary. An
// empty vocabulary tries all of them.
func BuildMappingVocabulary(tax *Taxonomy, g *Graph, vocab Vocabulary) (*Mapping, []Warning) {
	m := &Mapping{
		Bones:      make(map[string]*CanonicalBone, len(tax.Bones)),
		Order:      append([]string(nil), tax.Order...),
		Root:       tax.Root,
		TotalDOF:   tax.TotalDOF,
		AliasTable: map[string][]string{},
	}
	for name, b := range tax.Bones {
		copied := *b
		m.Bones[name] = &copied
	}

	var warnings []Warning
	for _, index := range g.Order {
		node := g.Nodes[index]
		var canonical string
		var ok bool
		if vocab == "" {
			canonical, _, ok = tax.ResolveAny(node.Name)
		} else {
			canonical, ok = tax.Resolve(vocab, node.Name)
		}
		if !ok {
			// Interior grouping nodes are in the graph for hierarchy only;
			// only names that look like bones are worth reporting.
			if hasBonePrefix(node.Name) {
				warnings = append(warnings, Warning{
					Kind:   WarnUnresolvedBoneAlias,
					Name:   node.Name,
					Detail: fmt.Sprintf("node %d %q matches no vocabulary", index, node.Name),
				})
			}
			continue
		}
		bone := m.Bones[canonical]
		if len(m.AliasTable[canonical]) == 0 {
			bone.Offset = node.Translation
			bone.Rotation = node.Rotation
		}
		m.AliasTable[canonical] = append(m.AliasTable[canonical], node.Name)
	}
	return m, warnings
}
