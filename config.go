package opckit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Package size limits
	MaxPackageSize      int64   `env:"OPCKIT_MAX_PACKAGE_SIZE,default:104857600"`       // 100MB default
	MaxParts            int     `env:"OPCKIT_MAX_PARTS,default:10000"`                  // zip entries, manifest included
	MaxUncompressedSize int64   `env:"OPCKIT_MAX_UNCOMPRESSED_SIZE,default:1073741824"` // 1GB default
	MaxCompressionRatio float64 `env:"OPCKIT_MAX_COMPRESSION_RATIO,default:100"`

	// Content type parsing
	MaxContentTypeLength int `env:"OPCKIT_MAX_CONTENT_TYPE_LENGTH,default:1024"`

	// Skip parts with invalid or missing content types instead of failing Open
	SkipInvalidParts bool `env:"OPCKIT_SKIP_INVALID_PARTS,default:false"`

	// Glob restricting the parts exposed after Open, e.g. "/word/**"
	PartFilter string `env:"OPCKIT_PART_FILTER"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
