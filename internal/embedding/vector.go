package embedding

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VectorToBytes packs a float32 vector into contiguous little-endian IEEE-754
// bytes, the storage format for chunk embeddings.
func VectorToBytes(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// BytesToVector is the exact inverse of VectorToBytes. A length that is not a
// multiple of 4 indicates a corrupt stored embedding.
func BytesToVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("corrupt embedding: %d bytes is not a whole number of float32s", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}
