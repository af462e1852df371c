package tryi

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Bytes returns the binary form: 10 bytes per triangle, in paint order.
func (t *Tryi) Bytes() []byte {
	out := make([]byte, 0, len(t.triangles)*TriangleBytes)
	for _, tri := range t.triangles {
		b := tri.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// Serialize returns the binary form encoded with standard base64.
func (t *Tryi) Serialize() string {
	return base64.StdEncoding.EncodeToString(t.Bytes())
}

// MarshalText implements encoding.TextMarshaler.
func (t *Tryi) MarshalText() ([]byte, error) {
	return []byte(t.Serialize()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The genome is
// rendered with default options.
func (t *Tryi) UnmarshalText(b []byte) error {
	d, err := Deserialize(string(b))
	if err != nil {
		return err
	}
	*t = *d
	return nil
}

// FromBytes decodes the binary form.
func FromBytes(b []byte, opts ...Option) (*Tryi, error) {
	if len(b)%TriangleBytes != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, len(b))
	}
	triangles := make([]Triangle, len(b)/TriangleBytes)
	for i := range triangles {
		triangles[i] = TriangleFromBytes([TriangleBytes]byte(b[i*TriangleBytes:]))
	}
	return build(triangles, newOptions(opts)), nil
}

// Deserialize decodes a base64 payload produced by Serialize.
func Deserialize(s string, opts ...Option) (*Tryi, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return FromBytes(b, opts...)
}

// EncodeSized returns "<width>;<height>;<payload>". The size is the
// output canvas, independent of the working resolution.
func EncodeSized(width, height int, t *Tryi) string {
	return strconv.Itoa(width) + ";" + strconv.Itoa(height) + ";" + t.Serialize()
}

// DecodeSized parses the output of EncodeSized. A bare payload without a
// size prefix is accepted and reports the canvas size 255x255.
func DecodeSized(s string, opts ...Option) (width, height int, t *Tryi, err error) {
	parts := strings.Split(strings.TrimSpace(s), ";")
	switch len(parts) {
	case 1:
		t, err = Deserialize(parts[0], opts...)
		return Canvas, Canvas, t, err
	case 3:
		width, err = parseDimension(parts[0])
		if err != nil {
			return 0, 0, nil, err
		}
		height, err = parseDimension(parts[1])
		if err != nil {
			return 0, 0, nil, err
		}
		t, err = Deserialize(parts[2], opts...)
		if err != nil {
			return 0, 0, nil, err
		}
		return width, height, t, nil
	default:
		return 0, 0, nil, fmt.Errorf("%w: expected \"<width>;<height>;<payload>\"", ErrInvalidSize)
	}
}

func parseDimension(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > MaxOutput {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return n, nil
}
