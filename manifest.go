package opckit

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gobeaver/opckit/contenttype"
)

// ManifestName is the zip entry holding the content type declarations
const ManifestName = "[Content_Types].xml"

// ContentTypesNamespace is the XML namespace of the manifest root element
const ContentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"

type xmlTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Declaration is a single Default or Override entry of the manifest
type Declaration struct {
	// Extension is set for Default entries, lower-cased, without the dot
	Extension string

	// PartName is set for Override entries
	PartName string

	// ContentType is the parsed content type, nil if Err is set
	ContentType *contenttype.ContentType

	// Raw is the ContentType attribute as written in the manifest
	Raw string

	// Err is the validation failure of Raw, if any
	Err error
}

// Manifest holds the content type declarations of a package
type Manifest struct {
	defaults  map[string]*Declaration
	overrides map[string]*Declaration
	invalid   []*Declaration
}

// ParseManifest reads a [Content_Types].xml stream. Every declared content
// type is validated with parser. Declarations that fail validation are kept
// aside and reported by Invalid; structural XML errors fail the whole parse.
func ParseManifest(r io.Reader, parser *contenttype.Parser) (*Manifest, error) {
	var doc xmlTypes
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if doc.XMLName.Space != "" && doc.XMLName.Space != ContentTypesNamespace {
		return nil, fmt.Errorf("%w: unexpected namespace %q", ErrInvalidManifest, doc.XMLName.Space)
	}

	m := &Manifest{
		defaults:  make(map[string]*Declaration, len(doc.Defaults)),
		overrides: make(map[string]*Declaration, len(doc.Overrides)),
	}

	for _, d := range doc.Defaults {
		ext := strings.ToLower(d.Extension)
		if ext == "" {
			return nil, fmt.Errorf("%w: Default without Extension", ErrInvalidManifest)
		}
		if _, dup := m.defaults[ext]; dup {
			return nil, fmt.Errorf("%w: duplicate Default for extension %q", ErrInvalidManifest, d.Extension)
		}
		decl := newDeclaration(parser, d.ContentType)
		decl.Extension = ext
		m.add(m.defaults, ext, decl)
	}

	for _, o := range doc.Overrides {
		if err := validatePartName(o.PartName); err != nil {
			return nil, fmt.Errorf("%w: Override %q: %v", ErrInvalidManifest, o.PartName, err)
		}
		key := partKey(o.PartName)
		if _, dup := m.overrides[key]; dup {
			return nil, fmt.Errorf("%w: duplicate Override for part %q", ErrInvalidManifest, o.PartName)
		}
		decl := newDeclaration(parser, o.ContentType)
		decl.PartName = o.PartName
		m.add(m.overrides, key, decl)
	}

	return m, nil
}

func newDeclaration(parser *contenttype.Parser, raw string) *Declaration {
	ct, err := parser.Parse(raw)
	return &Declaration{ContentType: ct, Raw: raw, Err: err}
}

func (m *Manifest) add(into map[string]*Declaration, key string, decl *Declaration) {
	into[key] = decl
	if decl.Err != nil {
		m.invalid = append(m.invalid, decl)
	}
}

// Lookup returns the declaration that applies to partName: the Override for
// that name if present, otherwise the Default for its extension.
func (m *Manifest) Lookup(partName string) (*Declaration, bool) {
	if decl, ok := m.overrides[partKey(partName)]; ok {
		return decl, true
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	if ext == "" {
		return nil, false
	}
	decl, ok := m.defaults[strings.ToLower(ext)]
	return decl, ok
}

// ContentTypeFor returns the validated content type of partName. It returns
// ErrNoContentType if nothing is declared, or the validation error of the
// applicable declaration.
func (m *Manifest) ContentTypeFor(partName string) (*contenttype.ContentType, error) {
	decl, ok := m.Lookup(partName)
	if !ok {
		return nil, ErrNoContentType
	}
	if decl.Err != nil {
		return nil, decl.Err
	}
	return decl.ContentType, nil
}

// Defaults returns the number of Default declarations
func (m *Manifest) Defaults() int { return len(m.defaults) }

// Overrides returns the number of Override declarations
func (m *Manifest) Overrides() int { return len(m.overrides) }

// Invalid returns the declarations whose content type failed validation
func (m *Manifest) Invalid() []*Declaration {
	out := make([]*Declaration, len(m.invalid))
	copy(out, m.invalid)
	return out
}
