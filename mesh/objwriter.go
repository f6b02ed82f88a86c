package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ serializes a submesh to Wavefront OBJ. Output is a pure function
// of the submesh: same input, same bytes. Face lines use 1-based v/vt/vn
// composites, omitting streams the submesh does not carry.
func WriteOBJ(sub *Submesh, ww io.Writer) error {
	w := bufio.NewWriter(ww)
	fmt.Fprintf(w, "# material: %s\n", sub.MaterialName)
	fmt.Fprintf(w, "# faces: %d\n\n", len(sub.Faces))

	for _, v := range sub.Positions {
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for _, t := range sub.UVs {
		fmt.Fprintf(w, "vt %.6f %.6f\n", t.X, t.Y)
	}
	for _, n := range sub.Normals {
		fmt.Fprintf(w, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
	}
	w.WriteString("\n")

	hasUV := len(sub.UVs) > 0
	hasNormal := len(sub.Normals) > 0
	for _, f := range sub.Faces {
		a, b, c := f[0]+1, f[1]+1, f[2]+1
		switch {
		case hasUV && hasNormal:
			fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		case hasUV:
			fmt.Fprintf(w, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		case hasNormal:
			fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		default:
			fmt.Fprintf(w, "f %d %d %d\n", a, b, c)
		}
	}
	return w.Flush()
}
