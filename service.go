package opckit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultOpener *Opener
	defaultOnce   sync.Once
	defaultErr    error
)

// Opener opens packages with a fixed set of options built from Config
type Opener struct {
	options []Option
}

// Builder provides a way to create Opener instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Opener instance using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Opener instance using the builder's prefix
func (b *Builder) New() (*Opener, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg)
}

// Init initializes the global Opener instance
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultOpener, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a new Opener with given config
func New(cfg *Config) (*Opener, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	options, err := createOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Opener{options: options}, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.MaxPackageSize < 0 {
		return errors.New("max package size must not be negative")
	}
	if cfg.MaxParts < 0 {
		return errors.New("max parts must not be negative")
	}
	if cfg.MaxUncompressedSize < 0 {
		return errors.New("max uncompressed size must not be negative")
	}
	if cfg.MaxCompressionRatio < 0 {
		return errors.New("max compression ratio must not be negative")
	}
	if cfg.MaxContentTypeLength < 0 {
		return errors.New("max content type length must not be negative")
	}
	return nil
}

// createOptions converts config into open options
func createOptions(cfg *Config) ([]Option, error) {
	options := []Option{
		WithMaxPackageSize(cfg.MaxPackageSize),
		WithMaxParts(cfg.MaxParts),
		WithMaxUncompressedSize(cfg.MaxUncompressedSize),
		WithMaxCompressionRatio(cfg.MaxCompressionRatio),
		WithMaxContentTypeLength(cfg.MaxContentTypeLength),
		WithSkipInvalidParts(cfg.SkipInvalidParts),
	}

	if cfg.PartFilter != "" {
		filter, err := Glob(cfg.PartFilter)
		if err != nil {
			return nil, err
		}
		options = append(options, WithFilter(filter))
	}

	return options, nil
}

// Open opens a package from r with the configured options.
// Per-call options are applied after the configured ones.
func (o *Opener) Open(r io.ReaderAt, size int64, opts ...Option) (*Package, error) {
	return Open(r, size, o.merge(opts)...)
}

// OpenFile opens a package from the local filesystem with the configured options
func (o *Opener) OpenFile(path string, opts ...Option) (*Package, error) {
	return OpenFile(path, o.merge(opts)...)
}

// OpenFrom opens a package from a filekit filesystem with the configured options
func (o *Opener) OpenFrom(ctx context.Context, fsys FileReader, path string, opts ...Option) (*Package, error) {
	return OpenFrom(ctx, fsys, path, o.merge(opts)...)
}

func (o *Opener) merge(opts []Option) []Option {
	all := make([]Option, 0, len(o.options)+len(opts))
	all = append(all, o.options...)
	all = append(all, opts...)
	return all
}

// Default returns the global instance, initializing if needed with error handling
func Default() (*Opener, error) {
	if defaultOpener == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return defaultOpener, nil
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv() (*Opener, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultOpener = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
