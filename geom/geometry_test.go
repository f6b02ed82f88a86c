package geom

import (
	"math"
	"testing"
)

func TestVector2(t *testing.T) {
	zero := NewVector2(0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *NewVector2(1, 0).Add(NewVector2(0, 1)) != *NewVector2(1, 1) {
		t.Error("Vector2.Add()")
	}

	if NewVector2(3, 4).Len() != 5 {
		t.Error("Vector2.Len()")
	}
}

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *zero.Normalize() != *NewVector3(1, 0, 0) {
		t.Error("Normalize shoud returns unit vector.", zero.Normalize())
	}

	if *NewVector3(1, 0, 0).Add(NewVector3(0, 1, 0)) != *NewVector3(1, 1, 0) {
		t.Error("Vector3.Add()")
	}

	if *NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)) != *NewVector3(0, 0, 1) {
		t.Error("Vector3.Cross()")
	}
}

func TestQuaternion(t *testing.T) {
	id := NewQuaternion(0, 0, 0, 1)
	if !id.IsIdentity() {
		t.Error("identity")
	}

	// 90 degrees around Z
	s, c := math.Sin(math.Pi/4), math.Cos(math.Pi/4)
	q := NewQuaternion(0, 0, s, c)
	v := q.ApplyTo(NewVector3(1, 0, 0))
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1) > 1e-9 || math.Abs(v.Z) > 1e-9 {
		t.Error("ApplyTo should rotate x to y:", v)
	}

	r := q.Mul(q.Inverse())
	if math.Abs(r.W-1) > 1e-9 || math.Abs(r.X) > 1e-9 {
		t.Error("q * q^-1 should be identity:", r)
	}
}
