package packet

import (
	"bytes"
	"testing"
)

func TestReader_RoundTrip(t *testing.T) {
	w := NewWriter(64)
	if err := w.WriteByte(0x15); err != nil {
		t.Fatalf("WriteByte failed: %v", err)
	}
	w.WriteShort(0xABCD)
	w.WriteInt(-42)
	w.WriteUInt(3317978623)
	w.WriteLong(-1)
	w.WriteFloat(2.5)
	w.WriteDouble(-0.125)
	w.WriteString("logic_chat")

	r := NewReader(w.Bytes())

	b, err := r.ReadByte()
	if err != nil || b != 0x15 {
		t.Errorf("ReadByte: got 0x%02X, err %v", b, err)
	}
	s, err := r.ReadShort()
	if err != nil || s != 0xABCD {
		t.Errorf("ReadShort: got 0x%04X, err %v", s, err)
	}
	i, err := r.ReadInt()
	if err != nil || i != -42 {
		t.Errorf("ReadInt: got %d, err %v", i, err)
	}
	u, err := r.ReadUInt()
	if err != nil || u != 3317978623 {
		t.Errorf("ReadUInt: got %d, err %v", u, err)
	}
	l, err := r.ReadLong()
	if err != nil || l != -1 {
		t.Errorf("ReadLong: got %d, err %v", l, err)
	}
	f, err := r.ReadFloat()
	if err != nil || f != 2.5 {
		t.Errorf("ReadFloat: got %v, err %v", f, err)
	}
	d, err := r.ReadDouble()
	if err != nil || d != -0.125 {
		t.Errorf("ReadDouble: got %v, err %v", d, err)
	}
	str, err := r.ReadString()
	if err != nil || str != "logic_chat" {
		t.Errorf("ReadString: got %q, err %v", str, err)
	}

	if r.Remaining() != 0 {
		t.Errorf("expected fully consumed reader, %d bytes remain", r.Remaining())
	}
}

func TestReader_ReadSize(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint32
		consumed int
	}{
		{name: "zero", data: []byte{0x00}, expected: 0, consumed: 1},
		{name: "one byte", data: []byte{0x7F}, expected: 127, consumed: 1},
		{name: "two bytes", data: []byte{0xAC, 0x02}, expected: 300, consumed: 2},
		{name: "trailing data ignored", data: []byte{0x04, 0x15}, expected: 4, consumed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			val, err := r.ReadSize()
			if err != nil {
				t.Fatalf("ReadSize failed: %v", err)
			}
			if val != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, val)
			}
			if r.Position() != tt.consumed {
				t.Errorf("expected position %d, got %d", tt.consumed, r.Position())
			}
		})
	}
}

func TestReader_ReadSize_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: []byte{0x80}},
		{name: "too long", data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "overflow", data: []byte{0x80, 0x80, 0x80, 0x80, 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			if _, err := r.ReadSize(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestReader_ReadString_Truncated(t *testing.T) {
	// Declared length 10, only 3 bytes of data follow.
	r := NewReader([]byte{0x0A, 'a', 'b', 'c'})

	if _, err := r.ReadString(); err == nil {
		t.Error("expected error on truncated string, got nil")
	}
}

func TestReader_NotEnoughData(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})

	if _, err := r.ReadInt(); err == nil {
		t.Error("ReadInt: expected error, got nil")
	}
	if _, err := r.ReadLong(); err == nil {
		t.Error("ReadLong: expected error, got nil")
	}
	if _, err := r.ReadFloat(); err == nil {
		t.Error("ReadFloat: expected error, got nil")
	}
}

func TestReader_ReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(data)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("expected 01 02 03, got % X", got)
	}
	if r.Remaining() != 1 {
		t.Errorf("expected 1 byte remaining, got %d", r.Remaining())
	}

	if _, err := r.ReadBytes(2); err == nil {
		t.Error("expected error reading past end, got nil")
	}
	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative count, got nil")
	}
}

func TestReader_ReadBytesCopy(t *testing.T) {
	data := []byte{0xAA, 0xBB}
	r := NewReader(data)

	got, err := r.ReadBytesCopy(2)
	if err != nil {
		t.Fatalf("ReadBytesCopy failed: %v", err)
	}

	got[0] = 0x00
	if data[0] != 0xAA {
		t.Error("ReadBytesCopy must not share backing array")
	}
}
