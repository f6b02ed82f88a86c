package mesh

import (
	"testing"

	"github.com/navichat/vrmkit/geom"
)

func uvSubmesh(uvs ...geom.Vector2) *Submesh {
	return &Submesh{UVs: uvs}
}

func TestApplyUVTransform(t *testing.T) {
	sub := uvSubmesh(geom.Vector2{X: 0.25, Y: 0.75})
	if w := ApplyUVTransform(sub, UVFlipV); len(w) != 0 {
		t.Error("unexpected warning:", w)
	}
	if sub.UVs[0] != (geom.Vector2{X: 0.25, Y: 0.25}) {
		t.Error("flip-v:", sub.UVs[0])
	}

	sub = uvSubmesh(geom.Vector2{X: 0.25, Y: 0.75})
	ApplyUVTransform(sub, UVFlipU)
	if sub.UVs[0] != (geom.Vector2{X: 0.75, Y: 0.75}) {
		t.Error("flip-u:", sub.UVs[0])
	}

	sub = uvSubmesh(geom.Vector2{X: 0.25, Y: 0.75})
	ApplyUVTransform(sub, UVFlipBoth)
	if sub.UVs[0] != (geom.Vector2{X: 0.75, Y: 0.25}) {
		t.Error("flip-both:", sub.UVs[0])
	}

	sub = uvSubmesh(geom.Vector2{X: 0.25, Y: 0.75})
	ApplyUVTransform(sub, UVIdentity)
	if sub.UVs[0] != (geom.Vector2{X: 0.25, Y: 0.75}) {
		t.Error("identity:", sub.UVs[0])
	}
}

func TestApplyUVTransform_SuspiciousRange(t *testing.T) {
	sub := uvSubmesh(geom.Vector2{X: 0.5, Y: -2.5})
	warnings := ApplyUVTransform(sub, UVIdentity)
	if len(warnings) != 1 || warnings[0].Kind != WarnSuspiciousUVRange {
		t.Fatal("out-of-range uv should warn:", warnings)
	}

	// Slightly outside [0,1] is tolerated.
	sub = uvSubmesh(geom.Vector2{X: 1.005, Y: -0.005})
	if w := ApplyUVTransform(sub, UVIdentity); len(w) != 0 {
		t.Error("epsilon slack should not warn:", w)
	}
}

func TestParseUVTransform(t *testing.T) {
	for _, tr := range []UVTransform{UVIdentity, UVFlipV, UVFlipU, UVFlipBoth} {
		got, err := ParseUVTransform(tr.String())
		if err != nil || got != tr {
			t.Error("round trip failed for", tr)
		}
	}
	if _, err := ParseUVTransform("rotate-90"); err == nil {
		t.Error("unknown transform should fail")
	}
}
