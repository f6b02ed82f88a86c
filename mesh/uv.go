package mesh

import (
	"fmt"
)

// UVTransform is one of a closed set of texture-coordinate axis corrections.
// GLB stores V growing downward; most target renderers want it growing
// upward, so FlipV is the usual choice. The transform is always selected by
// the caller, never inferred from content.
type UVTransform int

const (
	UVIdentity UVTransform = iota
	UVFlipV
	UVFlipU
	UVFlipBoth
)

func (t UVTransform) String() string {
	switch t {
	case UVIdentity:
		return "identity"
	case UVFlipV:
		return "flip-v"
	case UVFlipU:
		return "flip-u"
	case UVFlipBoth:
		return "flip-both"
	}
	return fmt.Sprintf("UVTransform(%d)", int(t))
}

func ParseUVTransform(s string) (UVTransform, error) {
	switch s {
	case "identity":
		return UVIdentity, nil
	case "flip-v":
		return UVFlipV, nil
	case "flip-u":
		return UVFlipU, nil
	case "flip-both":
		return UVFlipBoth, nil
	}
	return UVIdentity, fmt.Errorf("unknown uv transform %q", s)
}

const uvEpsilon = 0.01

// ApplyUVTransform corrects the submesh's UVs in place and audits the
// result. UVs outside [-ε, 1+ε] after correction are reported as a
// SuspiciousUVRange warning so systematic convention bugs show up in the
// manifest instead of as silently wrong rendering.
func ApplyUVTransform(sub *Submesh, t UVTransform) []Warning {
	if len(sub.UVs) == 0 {
		return nil
	}
	for i := range sub.UVs {
		switch t {
		case UVFlipV:
			sub.UVs[i].Y = 1 - sub.UVs[i].Y
		case UVFlipU:
			sub.UVs[i].X = 1 - sub.UVs[i].X
		case UVFlipBoth:
			sub.UVs[i].X = 1 - sub.UVs[i].X
			sub.UVs[i].Y = 1 - sub.UVs[i].Y
		}
	}

	minU, maxU := sub.UVs[0].X, sub.UVs[0].X
	minV, maxV := sub.UVs[0].Y, sub.UVs[0].Y
	for _, uv := range sub.UVs[1:] {
		minU, maxU = min2(minU, uv.X), max2(maxU, uv.X)
		minV, maxV = min2(minV, uv.Y), max2(maxV, uv.Y)
	}
	if minU < -uvEpsilon || maxU > 1+uvEpsilon || minV < -uvEpsilon || maxV > 1+uvEpsilon {
		return []Warning{{
			Kind:           WarnSuspiciousUVRange,
			MeshIndex:      sub.MeshIndex,
			PrimitiveIndex: sub.PrimitiveIndex,
			Detail:         fmt.Sprintf("uv range u=[%g, %g] v=[%g, %g] after %v", minU, maxU, minV, maxV, t),
		}}
	}
	return nil
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
