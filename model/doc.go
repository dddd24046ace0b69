// Package model defines the structured description of a slide that the
// extraction pipeline produces and the emitter consumes: the slide
// document, the element sum type (text, list, image, shape, line,
// table), rich-text runs, table cells, placeholders, and the
// validation-error value.
//
// All geometry in this package is in inches. Conversion to the target
// format's native unit happens only at emission.
package model
