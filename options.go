package opckit

import (
	"github.com/gobeaver/opckit/contenttype"
)

// Size constants for easier limit configuration
const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// Option represents a configuration option for opening a package
type Option func(*Options)

// Options contains all possible options for opening a package
type Options struct {
	// MaxPackageSize is the maximum container size in bytes read by OpenFrom.
	// Zero means no limit.
	MaxPackageSize int64

	// MaxParts is the maximum number of zip entries, manifest included.
	// Zero means no limit.
	MaxParts int

	// MaxUncompressedSize is the maximum total uncompressed size of all
	// entries. Zero means no limit.
	MaxUncompressedSize int64

	// MaxCompressionRatio is the maximum uncompressed:compressed ratio of any
	// single entry. Zero means no limit.
	MaxCompressionRatio float64

	// Parser validates every content type declared by the manifest
	Parser *contenttype.Parser

	// SkipInvalidParts drops parts whose content type is missing or invalid
	// instead of failing Open
	SkipInvalidParts bool

	// Filter restricts the parts exposed by the package. Nil keeps all parts.
	Filter PartSelector
}

// DefaultOptions returns the limits used when no option overrides them
func DefaultOptions() Options {
	return Options{
		MaxPackageSize:      100 * MB,
		MaxParts:            10000,
		MaxUncompressedSize: 1 * GB,
		MaxCompressionRatio: 100.0,
		Parser:              contenttype.NewParser(contenttype.DefaultMaxLength),
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Parser == nil {
		o.Parser = contenttype.NewParser(contenttype.DefaultMaxLength)
	}
	return o
}

// WithMaxPackageSize sets the maximum container size read into memory
func WithMaxPackageSize(size int64) Option {
	return func(o *Options) {
		o.MaxPackageSize = size
	}
}

// WithMaxParts sets the maximum number of zip entries
func WithMaxParts(n int) Option {
	return func(o *Options) {
		o.MaxParts = n
	}
}

// WithMaxUncompressedSize sets the maximum total uncompressed size
func WithMaxUncompressedSize(size int64) Option {
	return func(o *Options) {
		o.MaxUncompressedSize = size
	}
}

// WithMaxCompressionRatio sets the maximum per-entry compression ratio
func WithMaxCompressionRatio(ratio float64) Option {
	return func(o *Options) {
		o.MaxCompressionRatio = ratio
	}
}

// WithMaxContentTypeLength sets the maximum length of a declared content type
func WithMaxContentTypeLength(n int) Option {
	return func(o *Options) {
		o.Parser = contenttype.NewParser(n)
	}
}

// WithSkipInvalidParts drops parts with missing or invalid content types
// instead of failing Open
func WithSkipInvalidParts(skip bool) Option {
	return func(o *Options) {
		o.SkipInvalidParts = skip
	}
}

// WithFilter restricts the parts exposed by the package
func WithFilter(selector PartSelector) Option {
	return func(o *Options) {
		o.Filter = selector
	}
}
