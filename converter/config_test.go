package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/navichat/vrmkit/mesh"
)

func TestConfigDefaults(t *testing.T) {
	c := &Config{}
	if err := c.Resolve(); err != nil {
		t.Fatal(err)
	}
	if c.OutputDir != "extracted" {
		t.Error("output dir:", c.OutputDir)
	}
	if c.DefaultUV != "flip-v" {
		t.Error("default uv:", c.DefaultUV)
	}
	if c.Workers < 1 {
		t.Error("workers:", c.Workers)
	}
	if tr := c.UVTransformFor(mesh.CategorySkin); tr != mesh.UVFlipV {
		t.Error("transform:", tr)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "output_dir: out\ndefault_uv: identity\nworkers: 2\n" +
		"uv_corrections:\n  hair: flip-both\n" +
		"texture_overrides:\n  skin: custom_skin.png\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Resolve(); err != nil {
		t.Fatal(err)
	}
	if c.OutputDir != "out" || c.Workers != 2 {
		t.Error("fields:", c.OutputDir, c.Workers)
	}
	if tr := c.UVTransformFor(mesh.CategoryHair); tr != mesh.UVFlipBoth {
		t.Error("hair transform:", tr)
	}
	if tr := c.UVTransformFor(mesh.CategoryFace); tr != mesh.UVIdentity {
		t.Error("fallback transform:", tr)
	}
	if c.textureOverrides()[mesh.CategorySkin] != "custom_skin.png" {
		t.Error("texture override lost")
	}
}

func TestConfigRejectsUnknownTransform(t *testing.T) {
	c := &Config{DefaultUV: "mirror"}
	if err := c.Resolve(); err == nil {
		t.Error("bad default_uv accepted")
	}
	c = &Config{UVCorrections: map[string]string{"skin": "sideways"}}
	if err := c.Resolve(); err == nil {
		t.Error("bad uv_corrections accepted")
	}
}

func TestConfigVocabulary(t *testing.T) {
	for _, v := range []string{"", "humanoid", "mocap", "rigtool"} {
		c := &Config{Vocabulary: v}
		if err := c.Resolve(); err != nil {
			t.Error(v, err)
		}
	}
	c := &Config{Vocabulary: "biped"}
	if err := c.Resolve(); err == nil {
		t.Error("unknown vocabulary accepted")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
