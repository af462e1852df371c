package tryi

import (
	"errors"
	"testing"
)

func TestReadDNA(t *testing.T) {
	in := "3 2 " +
		"255 0 128 0.5 0 0 255 0 0 255 " +
		"1 2 3 1.0 10 20 30 40 50.4 60.6\n"

	g, err := ReadDNA(in)
	if err != nil {
		t.Fatalf("ReadDNA() error = %v", err)
	}
	want := []Triangle{
		{Pt(0, 0), Pt(255, 0), Pt(0, 255), RGBA(255, 0, 128, 128)},
		{Pt(10, 20), Pt(30, 40), Pt(50, 61), RGBA(1, 2, 3, 255)},
	}
	if g.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", g.Len(), len(want))
	}
	for i, tri := range want {
		if got := g.Triangle(i); got != tri {
			t.Errorf("triangle %d = %v, want %v", i, got, tri)
		}
	}
}

func TestReadDNA_Empty(t *testing.T) {
	g, err := ReadDNA("3 0")
	if err != nil || g.Len() != 0 {
		t.Errorf("ReadDNA(3 0) = %v, %v", g, err)
	}
}

func TestReadDNA_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only", "3"},
		{"quads", "4 1 0 0 0 0.5 0 0 1 1 2 2 3 3"},
		{"bad count", "3 x"},
		{"negative count", "3 -1"},
		{"count overflows", "3 5534023222112865485 1 2"},
		{"count larger than values", "3 2 0 0 0 0.5 0 0 1 1 2 2"},
		{"too few values", "3 1 0 0 0 0.5 0 0 1 1 2"},
		{"too many values", "3 1 0 0 0 0.5 0 0 1 1 2 2 3"},
		{"colour out of range", "3 1 256 0 0 0.5 0 0 1 1 2 2"},
		{"colour not integer", "3 1 1.5 0 0 0.5 0 0 1 1 2 2"},
		{"alpha out of range", "3 1 0 0 0 1.5 0 0 1 1 2 2"},
		{"coordinate out of range", "3 1 0 0 0 0.5 0 0 300 1 2 2"},
		{"coordinate negative", "3 1 0 0 0 0.5 0 -1 1 1 2 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDNA(tt.in)
			if !errors.Is(err, ErrInvalidDNA) {
				t.Errorf("ReadDNA(%q) error = %v, want ErrInvalidDNA", tt.in, err)
			}
		})
	}
}
