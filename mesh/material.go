package mesh

import (
	"fmt"
	"strings"
)

// Category is a semantic component class for an extracted submesh. The
// renderer joins meshes and textures through these names.
type Category string

const (
	CategorySkin         Category = "skin"
	CategoryFace         Category = "face"
	CategoryMouth        Category = "mouth"
	CategoryEyeIris      Category = "eye_iris"
	CategoryEyeHighlight Category = "eye_highlight"
	CategoryEyeWhite     Category = "eye_white"
	CategoryEyebrow      Category = "eyebrow"
	CategoryEyelash      Category = "eyelash"
	CategoryEyeline      Category = "eyeline"
	CategoryHair         Category = "hair"
	CategoryTop          Category = "top"
	CategoryBottom       Category = "bottom"
	CategoryShoes        Category = "shoes"
	CategoryDetail       Category = "detail"
	CategoryUnclassified Category = "unclassified"
)

type materialRule struct {
	substr   string
	category Category
}

// Rule order matters: specific names shadow the generic suffixes below them.
// NewMaterialResolver rejects orderings where an earlier rule makes a later
// one unreachable.
var defaultMaterialRules = []materialRule{
	{"Face_00_SKIN", CategoryFace},
	{"FaceMouth", CategoryMouth},
	{"EyeIris", CategoryEyeIris},
	{"EyeHighlight", CategoryEyeHighlight},
	{"EyeWhite", CategoryEyeWhite},
	{"FaceBrow", CategoryEyebrow},
	{"FaceEyelash", CategoryEyelash},
	{"FaceEyeline", CategoryEyeline},
	{"_00_SKIN", CategorySkin},
	{"_HAIR", CategoryHair},
	{"Tops_", CategoryTop},
	{"Bottoms_", CategoryBottom},
	{"Shoes_", CategoryShoes},
	{"Accessory", CategoryDetail},
}

var defaultTextures = map[Category]string{
	CategoryFace:         "texture_05.png",
	CategoryMouth:        "texture_00.png",
	CategoryEyeIris:      "texture_03.png",
	CategoryEyeHighlight: "texture_04.png",
	CategoryEyeWhite:     "texture_09.png",
	CategoryEyebrow:      "texture_10.png",
	CategoryEyelash:      "texture_11.png",
	CategoryEyeline:      "texture_12.png",
	CategorySkin:         "texture_13.png",
	CategoryHair:         "texture_16.png",
	CategoryTop:          "texture_15.png",
	CategoryBottom:       "texture_15.png",
	CategoryShoes:        "texture_19.png",
}

// MaterialResolver maps free-text material names from the asset to a
// semantic category and a suggested texture asset.
type MaterialResolver struct {
	rules    []materialRule
	textures map[Category]string
}

// NewMaterialResolver builds the resolver from the default rule table and
// optional per-category texture overrides.
func NewMaterialResolver(textureOverrides map[Category]string) (*MaterialResolver, error) {
	return newMaterialResolver(defaultMaterialRules, textureOverrides)
}

func newMaterialResolver(rules []materialRule, textureOverrides map[Category]string) (*MaterialResolver, error) {
	// An earlier substring contained in a later one makes the later rule
	// unreachable: every name matching it already matched the earlier rule.
	for i, a := range rules {
		for _, b := range rules[i+1:] {
			if strings.Contains(b.substr, a.substr) {
				return nil, fmt.Errorf("material rule %q (%s) is shadowed by earlier rule %q (%s)",
					b.substr, b.category, a.substr, a.category)
			}
		}
	}
	textures := make(map[Category]string, len(defaultTextures))
	for c, tex := range defaultTextures {
		textures[c] = tex
	}
	for c, tex := range textureOverrides {
		textures[c] = tex
	}
	return &MaterialResolver{rules: rules, textures: textures}, nil
}

// Resolve classifies a material name. An unmatched name yields
// CategoryUnclassified and no texture suggestion, never a guess.
func (r *MaterialResolver) Resolve(materialName string) (Category, string) {
	for _, rule := range r.rules {
		if strings.Contains(materialName, rule.substr) {
			return rule.category, r.textures[rule.category]
		}
	}
	return CategoryUnclassified, ""
}
