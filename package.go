package opckit

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/flate"
)

// FileReader is the read side of a filekit filesystem. Any filekit driver
// (local, memory, s3, ...) can be passed to OpenFrom.
type FileReader interface {
	Read(ctx context.Context, path string) (io.ReadCloser, error)
}

// Package is an opened OPC container whose parts all carry a validated
// content type. A Package is safe for concurrent readers.
type Package struct {
	reader   *zip.Reader
	closer   io.Closer
	closed   atomic.Bool
	manifest *Manifest
	parts    []*Part
	index    map[string]*Part
}

// Open reads an OPC container from r. Every content type declared by the
// manifest is validated; by default the first invalid declaration or part
// without a content type fails the whole open. Use WithSkipInvalidParts to
// drop such parts instead.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Package, error) {
	return open(r, size, nil, buildOptions(opts))
}

// OpenFile opens the OPC container stored at path on the local filesystem.
// The returned package must be closed.
func OpenFile(path string, opts ...Option) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat package: %w", err)
	}

	pkg, err := open(f, info.Size(), f, buildOptions(opts))
	if err != nil {
		f.Close()
		return nil, err
	}
	return pkg, nil
}

// OpenFrom reads the container at path from a filekit filesystem into memory
// and opens it. The read is bounded by the MaxPackageSize option.
func OpenFrom(ctx context.Context, fsys FileReader, path string, opts ...Option) (*Package, error) {
	o := buildOptions(opts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := fsys.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}
	defer rc.Close()

	var src io.Reader = rc
	if o.MaxPackageSize > 0 {
		src = io.LimitReader(rc, o.MaxPackageSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return open(bytes.NewReader(data), int64(len(data)), nil, o)
}

func open(r io.ReaderAt, size int64, closer io.Closer, o Options) (*Package, error) {
	if o.MaxPackageSize > 0 && size > o.MaxPackageSize {
		return nil, fmt.Errorf("%w: package size %d exceeds maximum %d", ErrLimitExceeded, size, o.MaxPackageSize)
	}

	// Entry names are checked as part names below, so an insecure path
	// reported by archive/zip is not fatal here.
	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: invalid ZIP structure: %v", ErrInvalidPackage, err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	if err := checkLimits(zr, o); err != nil {
		return nil, err
	}

	manifest, err := readManifest(zr, o)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		reader:   zr,
		closer:   closer,
		manifest: manifest,
		index:    make(map[string]*Part, len(zr.File)),
	}
	if err := pkg.loadParts(o); err != nil {
		return nil, err
	}
	return pkg, nil
}

// checkLimits applies the zip bomb limits to the central directory
func checkLimits(zr *zip.Reader, o Options) error {
	if o.MaxParts > 0 && len(zr.File) > o.MaxParts {
		return fmt.Errorf("%w: too many entries in package: %d (max: %d)", ErrLimitExceeded, len(zr.File), o.MaxParts)
	}

	var totalUncompressed uint64
	for _, file := range zr.File {
		if o.MaxCompressionRatio > 0 && file.CompressedSize64 > 0 {
			ratio := float64(file.UncompressedSize64) / float64(file.CompressedSize64)
			if ratio > o.MaxCompressionRatio {
				return &PartError{
					Op:   "open",
					Part: partNameFromZip(file.Name),
					Err:  fmt.Errorf("%w: suspicious compression ratio: %.2f:1", ErrLimitExceeded, ratio),
				}
			}
		}

		totalUncompressed += file.UncompressedSize64
		if o.MaxUncompressedSize > 0 && totalUncompressed > uint64(o.MaxUncompressedSize) { //nolint:gosec // MaxUncompressedSize is positive here
			return fmt.Errorf("%w: uncompressed size exceeds limit: %d", ErrLimitExceeded, o.MaxUncompressedSize)
		}
	}
	return nil
}

func readManifest(zr *zip.Reader, o Options) (*Manifest, error) {
	var entry *zip.File
	for _, file := range zr.File {
		if strings.EqualFold(file.Name, ManifestName) {
			entry = file
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPackage, ManifestName)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, &PartError{Op: "open", Part: ManifestName, Err: err}
	}
	defer rc.Close()

	manifest, err := ParseManifest(rc, o.Parser)
	if err != nil {
		return nil, &PartError{Op: "open", Part: ManifestName, Err: err}
	}

	if invalid := manifest.Invalid(); len(invalid) > 0 && !o.SkipInvalidParts {
		decl := invalid[0]
		target := decl.PartName
		if target == "" {
			target = "*." + decl.Extension
		}
		return nil, &PartError{
			Op:   "open",
			Part: target,
			Err:  fmt.Errorf("%w: %w", ErrInvalidManifest, decl.Err),
		}
	}
	return manifest, nil
}

func (p *Package) loadParts(o Options) error {
	for _, file := range p.reader.File {
		if strings.HasSuffix(file.Name, "/") || strings.EqualFold(file.Name, ManifestName) {
			continue
		}

		name := partNameFromZip(file.Name)
		part, err := p.newPart(name, file)
		if err != nil {
			if o.SkipInvalidParts {
				continue
			}
			return err
		}

		if o.Filter != nil && !o.Filter.Match(part) {
			continue
		}

		p.parts = append(p.parts, part)
		p.index[partKey(name)] = part
	}
	return nil
}

func (p *Package) newPart(name string, file *zip.File) (*Part, error) {
	if err := validatePartName(name); err != nil {
		return nil, &PartError{Op: "open", Part: name, Err: fmt.Errorf("%w: %v", ErrInvalidPartName, err)}
	}
	if _, dup := p.index[partKey(name)]; dup {
		return nil, &PartError{Op: "open", Part: name, Err: fmt.Errorf("%w: duplicate part name", ErrInvalidPackage)}
	}

	ct, err := p.manifest.ContentTypeFor(name)
	if err != nil {
		return nil, &PartError{Op: "open", Part: name, Err: err}
	}

	return &Part{name: name, contentType: ct, file: file, pkg: p}, nil
}

// Parts returns the parts of the package in container order
func (p *Package) Parts() []*Part {
	out := make([]*Part, len(p.parts))
	copy(out, p.parts)
	return out
}

// Part returns the part with the given name. Names compare case-insensitively.
func (p *Package) Part(name string) (*Part, error) {
	part, ok := p.index[partKey(name)]
	if !ok {
		return nil, &PartError{Op: "part", Part: name, Err: ErrPartNotFound}
	}
	return part, nil
}

// Select returns the parts matching selector in container order
func (p *Package) Select(selector PartSelector) []*Part {
	if selector == nil {
		return p.Parts()
	}

	var out []*Part
	for _, part := range p.parts {
		if selector.Match(part) {
			out = append(out, part)
		}
	}
	return out
}

// Manifest returns the parsed content type declarations
func (p *Package) Manifest() *Manifest {
	return p.manifest
}

// Close releases the underlying file, if the package owns one
func (p *Package) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
