package tryi

import (
	"encoding/base64"
	"errors"
	"strconv"
	"testing"
)

func TestSerialize_RoundTrip(t *testing.T) {
	g := Random(newRand(20), 100)

	s := g.Serialize()
	back, err := Deserialize(s)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if !back.Equal(g) {
		t.Error("round trip changed the triangle sequence")
	}
	if back.Serialize() != s {
		t.Error("re-serialized payload differs")
	}
	if !back.Raster().Equal(g.Raster()) {
		t.Error("round trip changed the rendered raster")
	}
}

func TestSerialize_Layout(t *testing.T) {
	g := New([]Triangle{
		{Pt(1, 2), Pt(3, 4), Pt(5, 6), RGBA(7, 8, 9, 10)},
		{Pt(11, 12), Pt(13, 14), Pt(15, 16), RGBA(17, 18, 19, 20)},
	})
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	if got := g.Serialize(); got != base64.StdEncoding.EncodeToString(want) {
		t.Errorf("Serialize() = %q, want %q", got, base64.StdEncoding.EncodeToString(want))
	}
}

func TestSerialize_Empty(t *testing.T) {
	g := Empty()
	if s := g.Serialize(); s != "" {
		t.Errorf("Serialize() of empty genome = %q, want empty", s)
	}
	back, err := Deserialize("")
	if err != nil || back.Len() != 0 {
		t.Errorf("Deserialize(\"\") = %v, %v", back, err)
	}
}

func TestDeserialize_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"seven bytes", base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4, 5, 6, 7}), ErrInvalidLength},
		{"eleven bytes", base64.StdEncoding.EncodeToString(make([]byte, 11)), ErrInvalidLength},
		{"not base64", "!!!not-base64!!!", ErrInvalidEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Deserialize() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestText_Marshal(t *testing.T) {
	g := Random(newRand(21), 3)
	b, err := g.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back Tryi
	if err := back.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(g) {
		t.Error("text round trip changed the genome")
	}
}

func TestSized_RoundTrip(t *testing.T) {
	g := Random(newRand(22), 10)
	s := EncodeSized(800, 600, g)

	w, h, back, err := DecodeSized(s)
	if err != nil {
		t.Fatalf("DecodeSized() error = %v", err)
	}
	if w != 800 || h != 600 {
		t.Errorf("size = %dx%d, want 800x600", w, h)
	}
	if !back.Equal(g) {
		t.Error("sized round trip changed the genome")
	}
	if back.Width() != Canvas {
		t.Errorf("decoded genome should render at the working size, got %d", back.Width())
	}
}

func TestDecodeSized_BarePayload(t *testing.T) {
	g := Random(newRand(23), 2)
	w, h, back, err := DecodeSized(g.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if w != Canvas || h != Canvas || !back.Equal(g) {
		t.Errorf("DecodeSized(bare) = %dx%d, equal=%v", w, h, back.Equal(g))
	}
}

func TestDecodeSized_Errors(t *testing.T) {
	payload := Random(newRand(24), 1).Serialize()
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"bad width", "abc;10;" + payload, ErrInvalidSize},
		{"zero height", "10;0;" + payload, ErrInvalidSize},
		{"huge width", "99999999;10;" + payload, ErrInvalidSize},
		{"width above limit", strconv.Itoa(MaxOutput+1) + ";10;" + payload, ErrInvalidSize},
		{"two fields", "10;" + payload, ErrInvalidSize},
		{"bad payload", "10;10;" + base64.StdEncoding.EncodeToString([]byte{1}), ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := DecodeSized(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeSized() error = %v, want %v", err, tt.want)
			}
		})
	}
}
