package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/saddleworks/rccemu/internal/constants"
)

// ErrMalformedFrame reports a corrupt frame: a VarInt prefix that does not
// terminate, a payload that exceeds the cap, or truncation mid-frame.
// Framing is position-sensitive, so the caller must close the connection;
// resynchronization is not attempted.
var ErrMalformedFrame = errors.New("malformed frame")

// VarIntLen returns the number of bytes AppendVarInt emits for v.
func VarIntLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendVarInt appends the VarInt encoding of v to dst and returns the
// extended slice. 7 data bits per byte, little-endian, high bit set on all
// but the terminal byte.
func AppendVarInt(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// WriteFrame writes one frame to w: the VarInt encoding of len(payload)
// followed by the payload bytes.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > constants.MaxFrameSize {
		return fmt.Errorf("write frame: payload %d exceeds cap %d", len(payload), constants.MaxFrameSize)
	}

	buf := make([]byte, 0, constants.VarIntMaxBytes+len(payload))
	buf = AppendVarInt(buf, uint32(len(payload)))
	buf = append(buf, payload...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// ReadFrame reads one frame from r and returns its payload.
//
// An I/O error on the very first prefix byte (connection closed, read
// deadline expired between frames) is returned as-is so the caller can tell
// idle timeouts from corruption. Any failure after the first byte leaves the
// stream mid-frame and is wrapped in ErrMalformedFrame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var one [1]byte

	var length uint32
	for i := range constants.VarIntMaxBytes {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			if i == 0 {
				return nil, err
			}
			return nil, fmt.Errorf("%w: truncated length prefix: %v", ErrMalformedFrame, err)
		}

		b := one[0]
		if i == constants.VarIntMaxBytes-1 && b&0xF0 != 0 {
			// Terminal byte of a 5-byte VarInt carries only 4 bits of a
			// 32-bit value.
			return nil, fmt.Errorf("%w: length prefix overflows 32 bits", ErrMalformedFrame)
		}
		length |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return readPayload(r, length)
		}
	}

	return nil, fmt.Errorf("%w: length prefix exceeds %d bytes", ErrMalformedFrame, constants.VarIntMaxBytes)
}

func readPayload(r io.Reader, length uint32) ([]byte, error) {
	if length > constants.MaxFrameSize {
		return nil, fmt.Errorf("%w: payload %d exceeds cap %d", ErrMalformedFrame, length, constants.MaxFrameSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: truncated payload (want %d): %v", ErrMalformedFrame, length, err)
	}
	return payload, nil
}
