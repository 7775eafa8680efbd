package opckit

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/gobeaver/opckit/contenttype"
)

// Part is a named entry of an OPC package with its declared content type
type Part struct {
	name        string
	contentType *contenttype.ContentType
	file        *zip.File
	pkg         *Package
}

// Name returns the part name, e.g. "/word/document.xml"
func (p *Part) Name() string {
	return p.name
}

// ContentType returns the canonical "type/subtype" content type of the part
func (p *Part) ContentType() string {
	return p.contentType.String()
}

// ContentTypeDetails returns the parsed content type, parameters included
func (p *Part) ContentTypeDetails() *contenttype.ContentType {
	return p.contentType
}

// IsRelationshipPart reports whether the part holds relationships
func (p *Part) IsRelationshipPart() bool {
	return isRelationshipPartName(p.name)
}

// Size returns the uncompressed size of the part in bytes
func (p *Part) Size() int64 {
	return int64(p.file.UncompressedSize64) //nolint:gosec // bounded by MaxUncompressedSize at open
}

// Open returns a reader for the part content
func (p *Part) Open() (io.ReadCloser, error) {
	if p.pkg != nil && p.pkg.closed.Load() {
		return nil, &PartError{Op: "open", Part: p.name, Err: ErrClosed}
	}
	rc, err := p.file.Open()
	if err != nil {
		return nil, &PartError{Op: "open", Part: p.name, Err: err}
	}
	return rc, nil
}

// Checksum calculates the checksum of the part content
func (p *Part) Checksum(algorithm ChecksumAlgorithm) (string, error) {
	rc, err := p.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	sum, err := CalculateChecksum(rc, algorithm)
	if err != nil {
		return "", &PartError{Op: "checksum", Part: p.name, Err: err}
	}
	return sum, nil
}

// String returns the part name and its content type with parameters
func (p *Part) String() string {
	return fmt.Sprintf("%s (%s)", p.name, p.contentType.StringWithParameters())
}
