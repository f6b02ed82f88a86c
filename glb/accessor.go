package glb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// glTF componentType values.
const (
	ComponentInt8    = 5120
	ComponentUint8   = 5121
	ComponentInt16   = 5122
	ComponentUint16  = 5123
	ComponentUint32  = 5125
	ComponentFloat32 = 5126
)

var ErrAccessorOutOfRange = errors.New("accessor out of range")

func componentSize(componentType int) int {
	switch componentType {
	case ComponentInt8, ComponentUint8:
		return 1
	case ComponentInt16, ComponentUint16:
		return 2
	case ComponentUint32, ComponentFloat32:
		return 4
	}
	return 0
}

func componentCount(typ string) int {
	switch typ {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	case "MAT4":
		return 16
	}
	return 0
}

// accessorLayout computes the base offset, effective stride and element size,
// and bounds-checks the whole range against the blob before anything is read.
func (doc *Document) accessorLayout(acc *Accessor, bin []byte) (offset, stride, elemSize int, err error) {
	if acc.BufferView == nil {
		return 0, 0, 0, fmt.Errorf("%w: accessor without bufferView", ErrUnsupportedSchema)
	}
	bv := doc.BufferViews[*acc.BufferView]
	elemSize = componentSize(acc.ComponentType) * componentCount(acc.Type)
	stride = bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	offset = bv.ByteOffset + acc.ByteOffset
	if acc.Count < 0 || offset < 0 || stride <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: invalid layout: offset %d, stride %d, count %d",
			ErrAccessorOutOfRange, offset, stride, acc.Count)
	}
	if acc.Count > 0 {
		end := offset + (acc.Count-1)*stride + elemSize
		if end > len(bin) {
			return 0, 0, 0, fmt.Errorf("%w: %d elements of %d bytes at offset %d, stride %d: need %d bytes, blob has %d",
				ErrAccessorOutOfRange, acc.Count, elemSize, offset, stride, end, len(bin))
		}
	}
	return offset, stride, elemSize, nil
}

// ReadFloats decodes an accessor into a flat float64 array of
// count * componentCount values. Integer components are converted without
// normalization.
func (doc *Document) ReadFloats(acc *Accessor, bin []byte) ([]float64, error) {
	offset, stride, _, err := doc.accessorLayout(acc, bin)
	if err != nil {
		return nil, err
	}
	csize := componentSize(acc.ComponentType)
	ccount := componentCount(acc.Type)
	out := make([]float64, 0, acc.Count*ccount)
	for i := 0; i < acc.Count; i++ {
		p := offset + i*stride
		for c := 0; c < ccount; c++ {
			out = append(out, readComponent(bin, p+c*csize, acc.ComponentType))
		}
	}
	return out, nil
}

// ReadIndices decodes an index accessor. Only unsigned integer component
// types are valid for indices.
func (doc *Document) ReadIndices(acc *Accessor, bin []byte) ([]uint32, error) {
	switch acc.ComponentType {
	case ComponentUint8, ComponentUint16, ComponentUint32:
	default:
		return nil, fmt.Errorf("%w: componentType %d is not valid for indices", ErrUnsupportedSchema, acc.ComponentType)
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("%w: index accessor type %q, want SCALAR", ErrUnsupportedSchema, acc.Type)
	}
	offset, stride, _, err := doc.accessorLayout(acc, bin)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, acc.Count)
	for i := 0; i < acc.Count; i++ {
		p := offset + i*stride
		switch acc.ComponentType {
		case ComponentUint8:
			out = append(out, uint32(bin[p]))
		case ComponentUint16:
			out = append(out, uint32(binary.LittleEndian.Uint16(bin[p:p+2])))
		case ComponentUint32:
			out = append(out, binary.LittleEndian.Uint32(bin[p:p+4]))
		}
	}
	return out, nil
}

func readComponent(bin []byte, p, componentType int) float64 {
	switch componentType {
	case ComponentInt8:
		return float64(int8(bin[p]))
	case ComponentUint8:
		return float64(bin[p])
	case ComponentInt16:
		return float64(int16(binary.LittleEndian.Uint16(bin[p : p+2])))
	case ComponentUint16:
		return float64(binary.LittleEndian.Uint16(bin[p : p+2]))
	case ComponentUint32:
		return float64(binary.LittleEndian.Uint32(bin[p : p+4]))
	case ComponentFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(bin[p : p+4])))
	}
	return 0
}
