package glb

// https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerMagic = 0x46546C67 // "glTF"
	ChunkJSON   = 0x4E4F534A // "JSON"
	ChunkBin    = 0x004E4942 // "BIN\x00"

	headerSize      = 12
	chunkHeaderSize = 8
)

var ErrMalformedContainer = errors.New("malformed container")

type Chunk struct {
	Type uint32
	Data []byte
}

type Container struct {
	Version uint32
	Length  uint32
	Chunks  []Chunk

	JSON []byte
	Bin  []byte
}

// ReadContainer validates the GLB header and splits the buffer into chunks.
// The JSON chunk is required, the BIN chunk is optional. Nothing is
// interpreted before the header and every chunk boundary are checked.
func ReadContainer(data []byte) (*Container, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrMalformedContainer, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != headerMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrMalformedContainer, magic)
	}
	c := &Container{
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Length:  binary.LittleEndian.Uint32(data[8:12]),
	}
	if int64(c.Length) > int64(len(data)) {
		return nil, fmt.Errorf("%w: declared length %d exceeds buffer size %d", ErrMalformedContainer, c.Length, len(data))
	}
	if c.Length < headerSize {
		return nil, fmt.Errorf("%w: declared length %d is shorter than the header", ErrMalformedContainer, c.Length)
	}

	offset := uint32(headerSize)
	for offset < c.Length {
		if c.Length-offset < chunkHeaderSize {
			return nil, fmt.Errorf("%w: truncated chunk header at offset %d", ErrMalformedContainer, offset)
		}
		length := binary.LittleEndian.Uint32(data[offset : offset+4])
		typ := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += chunkHeaderSize
		if c.Length-offset < length {
			return nil, fmt.Errorf("%w: chunk 0x%08x length %d reads past declared end", ErrMalformedContainer, typ, length)
		}
		chunk := Chunk{Type: typ, Data: data[offset : offset+length]}
		c.Chunks = append(c.Chunks, chunk)
		offset += length

		switch typ {
		case ChunkJSON:
			if c.JSON != nil {
				return nil, fmt.Errorf("%w: multiple JSON chunks", ErrMalformedContainer)
			}
			c.JSON = chunk.Data
		case ChunkBin:
			if c.Bin != nil {
				return nil, fmt.Errorf("%w: multiple BIN chunks", ErrMalformedContainer)
			}
			c.Bin = chunk.Data
		}
	}
	if c.JSON == nil {
		return nil, fmt.Errorf("%w: no JSON chunk", ErrMalformedContainer)
	}
	return c, nil
}
