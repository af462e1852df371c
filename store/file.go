// Package store persists checkpoints of an evolution run.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/evolve"
)

// ErrNotFound is returned when no checkpoint matches a lookup.
var ErrNotFound = errors.New("store: checkpoint not found")

// Ext is the file extension of sized genome files.
const Ext = ".tryi"

// File writes checkpoints as sized genome files: "<Base>-<gen>.tryi" for
// periodic checkpoints and "<Base>.tryi" for the final one.
type File struct {
	// Base is the path prefix, without extension.
	Base string

	// Width and Height are the output size recorded in every file.
	Width, Height int
}

var _ evolve.Checkpointer = (*File)(nil)

// NewFile returns a File checkpointer. A trailing ".tryi" on base is
// dropped.
func NewFile(base string, width, height int) *File {
	return &File{Base: strings.TrimSuffix(base, Ext), Width: width, Height: height}
}

// Path returns the file a checkpoint is written to.
func (f *File) Path(cp evolve.Checkpoint) string {
	if cp.Final {
		return f.Base + Ext
	}
	return fmt.Sprintf("%s-%d%s", f.Base, cp.Generation, Ext)
}

// Save implements evolve.Checkpointer.
func (f *File) Save(_ context.Context, cp evolve.Checkpoint) error {
	path := f.Path(cp)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	data := tryi.EncodeSized(f.Width, f.Height, cp.Match.Genome)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil { //nolint:gosec // G306: genome files are not secret
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a genome file. Files holding a bare payload report the
// working canvas size.
func ReadFile(path string, opts ...tryi.Option) (width, height int, t *tryi.Tryi, err error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return 0, 0, nil, fmt.Errorf("store: %w", err)
	}
	width, height, t, err = tryi.DecodeSized(string(data), opts...)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("store: %s: %w", path, err)
	}
	return width, height, t, nil
}

// Tee saves every checkpoint to all checkpointers in order and stops at
// the first error.
type Tee []evolve.Checkpointer

// Save implements evolve.Checkpointer.
func (t Tee) Save(ctx context.Context, cp evolve.Checkpoint) error {
	for _, c := range t {
		if err := c.Save(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}
