package tryi

// Option configures a Tryi during creation.
//
// Example:
//
//	// Default 255x255 working canvas, scanline renderer
//	t := tryi.New(triangles)
//
//	// Anti-aliased render at output resolution
//	t := tryi.New(triangles, tryi.WithSize(800, 600), tryi.WithRenderer(&tryi.VectorRenderer{}))
type Option func(*options)

// options holds optional configuration for genome creation.
type options struct {
	width    int
	height   int
	renderer Renderer
}

// defaultOptions returns the default genome options.
func defaultOptions() options {
	return options{
		width:    Canvas,
		height:   Canvas,
		renderer: defaultRenderer,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSize sets the raster size. Triangle geometry always lives on the
// 255x255 canvas and is scaled to this size when rendering.
// Non-positive dimensions are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width = width
			o.height = height
		}
	}
}

// WithRenderer sets the renderer. A nil renderer is ignored.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.renderer = r
		}
	}
}
