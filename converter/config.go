package converter

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/navichat/vrmkit/mesh"
	"github.com/navichat/vrmkit/skeleton"
)

// Config is the per-run extraction configuration. Zero values are filled by
// Resolve; a missing file means "all defaults".
type Config struct {
	OutputDir string `yaml:"output_dir"`

	// UVCorrections selects the axis transform per component category
	// ("skin: flip-v"). Unlisted categories use Default ("flip-v" unless
	// overridden): the source format stores V growing downward.
	UVCorrections map[string]string `yaml:"uv_corrections"`
	DefaultUV     string            `yaml:"default_uv"`

	// TextureOverrides replaces the suggested texture per category.
	TextureOverrides map[string]string `yaml:"texture_overrides"`

	// Vocabulary restricts bone alias resolution to one naming convention
	// ("humanoid", "mocap", "rigtool"). Empty tries all of them.
	Vocabulary string `yaml:"vocabulary"`

	// ObjPrefix overrides the source-mesh-name prefix of output filenames.
	ObjPrefix string `yaml:"obj_prefix"`

	Workers int `yaml:"workers"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}

// Resolve fills defaults and validates the transform names.
func (c *Config) Resolve() error {
	if c.OutputDir == "" {
		c.OutputDir = "extracted"
	}
	if c.DefaultUV == "" {
		c.DefaultUV = mesh.UVFlipV.String()
	}
	if _, err := mesh.ParseUVTransform(c.DefaultUV); err != nil {
		return fmt.Errorf("config: default_uv: %w", err)
	}
	for category, name := range c.UVCorrections {
		if _, err := mesh.ParseUVTransform(name); err != nil {
			return fmt.Errorf("config: uv_corrections[%s]: %w", category, err)
		}
	}
	switch skeleton.Vocabulary(c.Vocabulary) {
	case "", skeleton.VocabHumanoid, skeleton.VocabMocap, skeleton.VocabRigTool:
	default:
		return fmt.Errorf("config: unknown vocabulary %q", c.Vocabulary)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// UVTransformFor returns the configured transform for a category.
func (c *Config) UVTransformFor(category mesh.Category) mesh.UVTransform {
	if name, ok := c.UVCorrections[string(category)]; ok {
		t, _ := mesh.ParseUVTransform(name)
		return t
	}
	t, _ := mesh.ParseUVTransform(c.DefaultUV)
	return t
}

func (c *Config) textureOverrides() map[mesh.Category]string {
	if len(c.TextureOverrides) == 0 {
		return nil
	}
	m := make(map[mesh.Category]string, len(c.TextureOverrides))
	for category, tex := range c.TextureOverrides {
		m[mesh.Category(category)] = tex
	}
	return m
}
