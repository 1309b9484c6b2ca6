// Package endian provides byte order utilities for the otmap file layouts.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so a
// single value can both patch fixed-size header fields in place and append
// variable-length payload records.
//
// Fixed-point node values are always little-endian regardless of the engine;
// the engine governs header integers and native (width 0) float values.
//
// All functions and methods in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// AppendFloat32 appends the IEEE 754 bits of v to dst.
func AppendFloat32(engine EndianEngine, dst []byte, v float32) []byte {
	return engine.AppendUint32(dst, math.Float32bits(v))
}

// Float32 decodes an IEEE 754 float32 from the first 4 bytes of b.
func Float32(engine EndianEngine, b []byte) float32 {
	return math.Float32frombits(engine.Uint32(b))
}

// PutFloat64 writes the IEEE 754 bits of v into the first 8 bytes of b.
func PutFloat64(engine EndianEngine, b []byte, v float64) {
	engine.PutUint64(b, math.Float64bits(v))
}

// Float64 decodes an IEEE 754 float64 from the first 8 bytes of b.
func Float64(engine EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}
