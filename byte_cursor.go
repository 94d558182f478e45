package vanchron

import (
	"math"
)

// ByteCursor is a forward-moving reader over a single record's raw bytes,
// the Go counterpart of the original RawByteReader. It never copies or
// bounds-checks against a record boundary — a record's byte range comes
// from the index, and decoding past it is a corrupt-data bug in the
// caller, not something this type defends against (matching the original,
// which never checked shared-library style fixed-width layouts once it's
// been corrupted).
type ByteCursor struct {
	data   []byte
	offset int
}

// NewByteCursor wraps data for sequential decoding starting at offset.
func NewByteCursor(data []byte, offset int) *ByteCursor {
	return &ByteCursor{data: data, offset: offset}
}

// GetOffset returns the cursor's current byte offset.
func (c *ByteCursor) GetOffset() int { return c.offset }

// SetOffset repositions the cursor to an absolute byte offset. Needed
// after ReadString, whose length prefix may be followed by padding bytes
// this cursor has no way to know about on its own.
func (c *ByteCursor) SetOffset(offset int) { c.offset = offset }

// Advance moves the cursor forward by n bytes (n may be negative).
func (c *ByteCursor) Advance(n int) { c.offset += n }

// ReadInt32 reads a little-endian int32 and advances 4 bytes.
func (c *ByteCursor) ReadInt32() int32 {
	v := int32(getUint32LE(c.data[c.offset : c.offset+4]))
	c.offset += 4
	return v
}

// ReadInt16 reads a little-endian int16 and advances 2 bytes.
func (c *ByteCursor) ReadInt16() int16 {
	v := int16(getUint16LE(c.data[c.offset : c.offset+2]))
	c.offset += 2
	return v
}

// ReadInt64 reads a little-endian int64 and advances 8 bytes.
func (c *ByteCursor) ReadInt64() int64 {
	v := int64(getUint64LE(c.data[c.offset : c.offset+8]))
	c.offset += 8
	return v
}

// ReadFloat64 reads a little-endian IEEE 754 double and advances 8 bytes.
func (c *ByteCursor) ReadFloat64() float64 {
	v := math.Float64frombits(getUint64LE(c.data[c.offset : c.offset+8]))
	c.offset += 8
	return v
}

// ReadByte reads a single byte and advances 1 byte.
func (c *ByteCursor) ReadByte() byte {
	v := c.data[c.offset]
	c.offset++
	return v
}

// ReadBool reads a single byte as a boolean (nonzero is true) and advances
// 1 byte.
func (c *ByteCursor) ReadBool() bool {
	return c.ReadByte() != 0
}

// ReadU16CodeUnit reads a single raw UTF-16 code unit and advances 2
// bytes, returning it as a rune. This is a known-lossy operation carried
// over unchanged from the original format: it does not assemble surrogate
// pairs, so characters outside the Basic Multilingual Plane decode wrong.
// No writer in this package or the original ever produces surrogate pairs
// through this path; fixing that would need a wire-format change, not a
// reader change.
func (c *ByteCursor) ReadU16CodeUnit() rune {
	v := getUint16LE(c.data[c.offset : c.offset+2])
	c.offset += 2
	return rune(v)
}

// ReadStopBit reads a 7-bit-per-byte, high-bit-continuation varint: each
// byte contributes its low 7 bits, least significant group first, and a
// set high bit means "more bytes follow".
func (c *ByteCursor) ReadStopBit() uint64 {
	var value uint64
	var shift uint
	for {
		b := c.ReadByte()
		value |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			return value
		}
	}
}

// ReadString reads a stop-bit length prefix followed by that many bytes of
// UTF-8, and advances past exactly the length-prefix-plus-payload.
//
// Some writers pad a string field out to a fixed maximum size; this method
// does not know about or skip that padding. A caller reading padded
// string fields must track the field's maximum size itself and reposition
// with SetOffset/Advance afterward, exactly as the original's read_string
// requires of its callers.
func (c *ByteCursor) ReadString() string {
	n := int(c.ReadStopBit())
	s := string(c.data[c.offset : c.offset+n])
	c.offset += n
	return s
}

// PeekInt32 returns the int32 at the current offset without advancing.
func (c *ByteCursor) PeekInt32() int32 {
	return int32(getUint32LE(c.data[c.offset : c.offset+4]))
}

// PeekInt16 returns the int16 at the current offset without advancing.
func (c *ByteCursor) PeekInt16() int16 {
	return int16(getUint16LE(c.data[c.offset : c.offset+2]))
}

// PeekInt64 returns the int64 at the current offset without advancing.
func (c *ByteCursor) PeekInt64() int64 {
	return int64(getUint64LE(c.data[c.offset : c.offset+8]))
}

// PeekFloat64 returns the float64 at the current offset without advancing.
func (c *ByteCursor) PeekFloat64() float64 {
	return math.Float64frombits(getUint64LE(c.data[c.offset : c.offset+8]))
}

// PeekByte returns the byte at the current offset without advancing.
func (c *ByteCursor) PeekByte() byte {
	return c.data[c.offset]
}

// PeekBool returns the byte at the current offset, as a boolean, without
// advancing.
func (c *ByteCursor) PeekBool() bool {
	return c.data[c.offset] != 0
}

// PeekU16CodeUnit returns the UTF-16 code unit at the current offset
// without advancing. See ReadU16CodeUnit for its known lossiness.
func (c *ByteCursor) PeekU16CodeUnit() rune {
	return rune(getUint16LE(c.data[c.offset : c.offset+2]))
}

// PeekString returns the length-prefixed string at the current offset
// without moving the cursor.
func (c *ByteCursor) PeekString() string {
	saved := c.offset
	s := c.ReadString()
	c.offset = saved
	return s
}

// PeekStringUndefOffset returns the length-prefixed string at the current
// offset and leaves the cursor's final position unspecified — it reads
// through the string payload internally but makes no guarantee about
// where it ends up. This is the cheapest way to read a string the caller
// doesn't need to resume after; the caller must call SetOffset before any
// further read, exactly as the original's peek_string_undef_offset
// requires.
func (c *ByteCursor) PeekStringUndefOffset() string {
	n := int(c.ReadStopBit())
	return string(c.data[c.offset : c.offset+n])
}
