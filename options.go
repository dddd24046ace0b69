package slideweaver

import (
	"github.com/ktzy0305/SlideWeaver/autowrap"
	"github.com/ktzy0305/SlideWeaver/emit"
)

// convertOptions holds configuration for a conversion.
type convertOptions struct {
	// Heading auto-wrap
	wrapDisabled     bool
	maxWidthFraction float64

	// Image size resolution; nil means the file-based default
	sizer emit.ImageSizer
}

// defaultOptions returns the default conversion options.
func defaultOptions() convertOptions {
	return convertOptions{
		wrapDisabled:     false,
		maxWidthFraction: autowrap.DefaultMaxWidthFraction,
		sizer:            nil,
	}
}

// clone creates a copy of convertOptions.
func (o convertOptions) clone() convertOptions {
	return convertOptions{
		wrapDisabled:     o.wrapDisabled,
		maxWidthFraction: o.maxWidthFraction,
		sizer:            o.sizer,
	}
}
