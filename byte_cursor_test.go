package vanchron

import "testing"

func TestByteCursorTypedFields(t *testing.T) {
	c := &Appender{}
	c.WriteInt32(-7)
	c.WriteInt16(300)
	c.WriteInt64(1<<40 + 5)
	c.WriteFloat64(3.25)
	c.WriteByte(0xAB)
	c.WriteBool(true)
	c.WriteU16CodeUnit('Z')
	c.WriteString("hello")

	r := NewByteCursor(c.buf, 0)
	if got := r.ReadInt32(); got != -7 {
		t.Errorf("ReadInt32 = %d, want -7", got)
	}
	if got := r.ReadInt16(); got != 300 {
		t.Errorf("ReadInt16 = %d, want 300", got)
	}
	if got := r.ReadInt64(); got != 1<<40+5 {
		t.Errorf("ReadInt64 = %d, want %d", got, int64(1)<<40+5)
	}
	if got := r.ReadFloat64(); got != 3.25 {
		t.Errorf("ReadFloat64 = %v, want 3.25", got)
	}
	if got := r.ReadByte(); got != 0xAB {
		t.Errorf("ReadByte = %x, want ab", got)
	}
	if got := r.ReadBool(); !got {
		t.Errorf("ReadBool = false, want true")
	}
	if got := r.ReadU16CodeUnit(); got != 'Z' {
		t.Errorf("ReadU16CodeUnit = %q, want Z", got)
	}
	if got := r.ReadString(); got != "hello" {
		t.Errorf("ReadString = %q, want hello", got)
	}
	if r.GetOffset() != len(c.buf) {
		t.Errorf("GetOffset = %d, want %d (end of buffer)", r.GetOffset(), len(c.buf))
	}
}

func TestByteCursorPeekDoesNotAdvance(t *testing.T) {
	a := &Appender{}
	a.WriteInt32(42)
	a.WriteString("abc")

	r := NewByteCursor(a.buf, 0)
	if got := r.PeekInt32(); got != 42 {
		t.Fatalf("PeekInt32 = %d, want 42", got)
	}
	if r.GetOffset() != 0 {
		t.Fatalf("PeekInt32 advanced the offset to %d", r.GetOffset())
	}
	r.Advance(4)
	if got := r.PeekString(); got != "abc" {
		t.Fatalf("PeekString = %q, want abc", got)
	}
	if r.GetOffset() != 4 {
		t.Fatalf("PeekString left offset at %d, want 4", r.GetOffset())
	}
}

func TestByteCursorStopBitMultiByte(t *testing.T) {
	a := &Appender{}
	a.WriteStopBit(300) // needs two bytes: 300 = 0b100101100
	r := NewByteCursor(a.buf, 0)
	if got := r.ReadStopBit(); got != 300 {
		t.Fatalf("ReadStopBit = %d, want 300", got)
	}
	if r.GetOffset() != len(a.buf) {
		t.Fatalf("GetOffset = %d, want %d", r.GetOffset(), len(a.buf))
	}
}

func TestByteCursorSetOffsetAfterPaddedString(t *testing.T) {
	a := &Appender{}
	a.WriteString("hi") // 1-byte length prefix + 2 bytes payload = 3 bytes
	padded := append(append([]byte{}, a.buf...), make([]byte, 5)...)

	r := NewByteCursor(padded, 0)
	start := r.GetOffset()
	if got := r.ReadString(); got != "hi" {
		t.Fatalf("ReadString = %q, want hi", got)
	}
	// Simulate a fixed-width field: reposition past the padding regardless
	// of how many bytes ReadString actually consumed.
	r.SetOffset(start + 8)
	if r.GetOffset() != 8 {
		t.Fatalf("SetOffset did not take effect: got %d", r.GetOffset())
	}
}
