package opckit

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobeaver/opckit/contenttype"
)

type zipEntry struct {
	name string
	body string
}

// createPackageZip writes entries in order, which fixes the container order
// reported by Parts
func createPackageZip(t testing.TB, entries ...zipEntry) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = f.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func openBytes(t *testing.T, data []byte, opts ...Option) (*Package, error) {
	t.Helper()
	return Open(bytes.NewReader(data), int64(len(data)), opts...)
}

func manifestXML(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="` + ContentTypesNamespace + `">` +
		strings.Join(entries, "") +
		`</Types>`
}

func defaultDecl(ext, ct string) string {
	return fmt.Sprintf(`<Default Extension=%q ContentType=%q/>`, ext, ct)
}

func overrideDecl(name, ct string) string {
	return fmt.Sprintf(`<Override PartName=%q ContentType=%q/>`, name, ct)
}

const resqmlType = "application/x-resqml+xml"

// resqmlPackage mirrors an energy industry package whose parts carry
// parameterised content types
func resqmlPackage(t *testing.T) []byte {
	t.Helper()
	manifest := manifestXML(
		defaultDecl("rels", contenttype.RelationshipsPart),
		defaultDecl("xml", "application/xml"),
		overrideDecl("/docProps/core.xml", contenttype.CorePropertiesPart),
		overrideDecl("/global1dCrs.xml", resqmlType+";version=2.0;type=obj_global1dCrs"),
		overrideDecl("/global2dCrs.xml", resqmlType+";version=2.0;type=obj_global2dCrs"),
		overrideDecl("/myTestingGuid.xml", resqmlType+";version=2.0;type=obj_tectonicBoundaryFeature"),
	)
	return createPackageZip(t,
		zipEntry{ManifestName, manifest},
		zipEntry{"_rels/.rels", `<Relationships/>`},
		zipEntry{"docProps/core.xml", `<coreProperties/>`},
		zipEntry{"global1dCrs.xml", `<Global1dCrs/>`},
		zipEntry{"global2dCrs.xml", `<Global2dCrs/>`},
		zipEntry{"myTestingGuid.xml", `<TectonicBoundaryFeature/>`},
	)
}

func TestOpen_ContentTypeParameters(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	parts := pkg.Parts()
	require.Len(t, parts, 5)

	resqml := map[string]string{
		"/global1dCrs.xml":   "obj_global1dCrs",
		"/global2dCrs.xml":   "obj_global2dCrs",
		"/myTestingGuid.xml": "obj_tectonicBoundaryFeature",
	}

	for _, part := range parts {
		details := part.ContentTypeDetails()
		switch {
		case part.IsRelationshipPart():
			assert.Equal(t, contenttype.RelationshipsPart, part.ContentType())
			assert.Equal(t, contenttype.RelationshipsPart, details.String())
			assert.False(t, details.HasParameters())
			assert.Empty(t, details.ParameterKeys())

		case part.Name() == "/docProps/core.xml":
			assert.Equal(t, contenttype.CorePropertiesPart, part.ContentType())
			assert.Equal(t, contenttype.CorePropertiesPart, details.String())
			assert.False(t, details.HasParameters())
			assert.Empty(t, details.ParameterKeys())

		default:
			wantType, ok := resqml[part.Name()]
			require.True(t, ok, "unexpected part %s", part)

			assert.Equal(t, resqmlType, part.ContentType())
			assert.Equal(t, resqmlType, details.String())
			assert.True(t, details.HasParameters())
			assert.Equal(t, []string{"version", "type"}, details.ParameterKeys())

			version, ok := details.Parameter("version")
			assert.True(t, ok)
			assert.Equal(t, "2.0", version)

			typ, ok := details.Parameter("type")
			assert.True(t, ok)
			assert.Equal(t, wantType, typ)
		}
	}
}

func TestOpen_PartOrder(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	var names []string
	for _, part := range pkg.Parts() {
		names = append(names, part.Name())
	}
	assert.Equal(t, []string{
		"/_rels/.rels",
		"/docProps/core.xml",
		"/global1dCrs.xml",
		"/global2dCrs.xml",
		"/myTestingGuid.xml",
	}, names)
}

func TestOpen_InvalidContentType(t *testing.T) {
	data := createPackageZip(t,
		zipEntry{ManifestName, manifestXML(
			defaultDecl("xml", "application/xml"),
			overrideDecl("/commented.xml", "text/xml(comment)"),
		)},
		zipEntry{"commented.xml", `<a/>`},
		zipEntry{"plain.xml", `<b/>`},
	)

	t.Run("strict", func(t *testing.T) {
		_, err := openBytes(t, data)
		require.Error(t, err)

		var partErr *PartError
		require.ErrorAs(t, err, &partErr)
		assert.Equal(t, "/commented.xml", partErr.Part)
		assert.ErrorIs(t, err, ErrInvalidManifest)
		assert.True(t, IsInvalidPackage(err))

		var ctErr *contenttype.InvalidContentTypeError
		require.ErrorAs(t, err, &ctErr)
		assert.Equal(t, contenttype.RuleComment, ctErr.Rule)
		assert.Equal(t, "text/xml(comment)", ctErr.ContentType)
		assert.True(t, contenttype.IsRule(err, contenttype.RuleComment))
	})

	t.Run("skip invalid parts", func(t *testing.T) {
		pkg, err := openBytes(t, data, WithSkipInvalidParts(true))
		require.NoError(t, err)
		defer pkg.Close()

		parts := pkg.Parts()
		require.Len(t, parts, 1)
		assert.Equal(t, "/plain.xml", parts[0].Name())

		invalid := pkg.Manifest().Invalid()
		require.Len(t, invalid, 1)
		assert.Equal(t, "/commented.xml", invalid[0].PartName)
		assert.Equal(t, "text/xml(comment)", invalid[0].Raw)
	})
}

func TestOpen_InvalidDefault(t *testing.T) {
	data := createPackageZip(t,
		zipEntry{ManifestName, manifestXML(
			defaultDecl("xml", "text/xml/plain"),
		)},
		zipEntry{"a.xml", `<a/>`},
	)

	_, err := openBytes(t, data)
	require.Error(t, err)

	var partErr *PartError
	require.ErrorAs(t, err, &partErr)
	assert.Equal(t, "*.xml", partErr.Part)
	assert.True(t, contenttype.IsRule(err, contenttype.RuleExtraSlash))
}

func TestOpen_NoContentType(t *testing.T) {
	data := createPackageZip(t,
		zipEntry{ManifestName, manifestXML(defaultDecl("xml", "application/xml"))},
		zipEntry{"a.xml", `<a/>`},
		zipEntry{"media/image.png", "\x89PNG"},
	)

	_, err := openBytes(t, data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoContentType)

	var partErr *PartError
	require.ErrorAs(t, err, &partErr)
	assert.Equal(t, "/media/image.png", partErr.Part)

	pkg, err := openBytes(t, data, WithSkipInvalidParts(true))
	require.NoError(t, err)
	defer pkg.Close()
	assert.Len(t, pkg.Parts(), 1)
}

func TestOpen_InvalidContainer(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "not a zip",
			data:    []byte("this is not a zip archive"),
			wantErr: ErrInvalidPackage,
		},
		{
			name: "missing manifest",
			data: createPackageZip(t,
				zipEntry{"word/document.xml", `<w:document/>`},
			),
			wantErr: ErrInvalidPackage,
		},
		{
			name: "malformed manifest",
			data: createPackageZip(t,
				zipEntry{ManifestName, `<Types><Default`},
			),
			wantErr: ErrInvalidManifest,
		},
		{
			name: "invalid part name",
			data: createPackageZip(t,
				zipEntry{ManifestName, manifestXML(defaultDecl("xml", "application/xml"))},
				zipEntry{"word/../evil.xml", `<a/>`},
			),
			wantErr: ErrInvalidPartName,
		},
		{
			name: "duplicate part names",
			data: createPackageZip(t,
				zipEntry{ManifestName, manifestXML(defaultDecl("xml", "application/xml"))},
				zipEntry{"Word/Doc.xml", `<a/>`},
				zipEntry{"word/doc.xml", `<b/>`},
			),
			wantErr: ErrInvalidPackage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := openBytes(t, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
			if !IsInvalidPackage(err) {
				t.Errorf("IsInvalidPackage(%v) = false, want true", err)
			}
		})
	}
}

func TestOpen_ManifestCaseInsensitive(t *testing.T) {
	data := createPackageZip(t,
		zipEntry{"[content_types].xml", manifestXML(defaultDecl("xml", "application/xml"))},
		zipEntry{"a.xml", `<a/>`},
	)

	pkg, err := openBytes(t, data)
	require.NoError(t, err)
	defer pkg.Close()
	assert.Len(t, pkg.Parts(), 1)
}

func TestOpen_Limits(t *testing.T) {
	manifest := zipEntry{ManifestName, manifestXML(defaultDecl("xml", "application/xml"))}

	t.Run("too many parts", func(t *testing.T) {
		data := createPackageZip(t, manifest,
			zipEntry{"a.xml", `<a/>`},
			zipEntry{"b.xml", `<b/>`},
		)
		_, err := openBytes(t, data, WithMaxParts(2))
		assert.ErrorIs(t, err, ErrLimitExceeded)

		pkg, err := openBytes(t, data, WithMaxParts(3))
		require.NoError(t, err)
		pkg.Close()
	})

	t.Run("compression ratio", func(t *testing.T) {
		data := createPackageZip(t, manifest,
			zipEntry{"zeros.xml", strings.Repeat("\x00", int(MB))},
		)
		_, err := openBytes(t, data)
		require.ErrorIs(t, err, ErrLimitExceeded)

		var partErr *PartError
		require.ErrorAs(t, err, &partErr)
		assert.Equal(t, "/zeros.xml", partErr.Part)

		pkg, err := openBytes(t, data, WithMaxCompressionRatio(0))
		require.NoError(t, err)
		pkg.Close()
	})

	t.Run("uncompressed size", func(t *testing.T) {
		data := createPackageZip(t, manifest,
			zipEntry{"big.xml", strings.Repeat("<a/>", 1024)},
		)
		_, err := openBytes(t, data, WithMaxUncompressedSize(2*KB), WithMaxCompressionRatio(0))
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("package size", func(t *testing.T) {
		data := createPackageZip(t, manifest, zipEntry{"a.xml", `<a/>`})
		_, err := openBytes(t, data, WithMaxPackageSize(int64(len(data)-1)))
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("content type length", func(t *testing.T) {
		_, err := openBytes(t, resqmlPackage(t), WithMaxContentTypeLength(32))
		require.Error(t, err)
		assert.True(t, contenttype.IsRule(err, contenttype.RuleTooLong))
	})
}

func TestPackage_Part(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	tests := []struct {
		name     string
		lookup   string
		wantName string
		wantErr  bool
	}{
		{"exact", "/global1dCrs.xml", "/global1dCrs.xml", false},
		{"case-insensitive", "/GLOBAL1DCRS.XML", "/global1dCrs.xml", false},
		{"relationships", "/_rels/.rels", "/_rels/.rels", false},
		{"missing", "/nope.xml", "", true},
		{"manifest is not a part", "/" + ManifestName, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, err := pkg.Part(tt.lookup)
			if tt.wantErr {
				if !IsPartNotFound(err) {
					t.Errorf("Part(%q) error = %v, want ErrPartNotFound", tt.lookup, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Part(%q) error = %v", tt.lookup, err)
			}
			if part.Name() != tt.wantName {
				t.Errorf("Part(%q).Name() = %v, want %v", tt.lookup, part.Name(), tt.wantName)
			}
		})
	}
}

func TestPart_Open(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t))
	require.NoError(t, err)

	part, err := pkg.Part("/myTestingGuid.xml")
	require.NoError(t, err)
	assert.Equal(t, int64(len(`<TectonicBoundaryFeature/>`)), part.Size())
	assert.Equal(t, "/myTestingGuid.xml ("+resqmlType+";version=2.0;type=obj_tectonicBoundaryFeature)", part.String())

	rc, err := part.Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `<TectonicBoundaryFeature/>`, string(content))

	require.NoError(t, pkg.Close())
	require.NoError(t, pkg.Close(), "Close must be idempotent")

	_, err = part.Open()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPart_Checksum(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	part, err := pkg.Part("/global1dCrs.xml")
	require.NoError(t, err)

	sum, err := part.Checksum(ChecksumXXHash)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String(`<Global1dCrs/>`)), sum)

	ok, err := pkg.VerifyChecksum("/global1dCrs.xml", sum, ChecksumXXHash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pkg.VerifyChecksum("/global2dCrs.xml", sum, ChecksumXXHash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = pkg.VerifyChecksum("/missing.xml", sum, ChecksumXXHash)
	assert.True(t, IsPartNotFound(err))

	sums, err := pkg.Checksums(ChecksumSHA256)
	require.NoError(t, err)
	assert.Len(t, sums, 5)
	assert.NotContains(t, sums, "/"+ManifestName)

	_, err = pkg.Checksums("whirlpool")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestPackage_Select(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t))
	require.NoError(t, err)
	defer pkg.Close()

	assert.Len(t, pkg.Select(nil), 5)
	assert.Len(t, pkg.Select(ContentTypeIs(resqmlType)), 3)
	assert.Len(t, pkg.Select(RelationshipParts()), 1)
	assert.Len(t, pkg.Select(ParameterIs("type", "obj_global2dCrs")), 1)
}

func TestOpen_Filter(t *testing.T) {
	pkg, err := openBytes(t, resqmlPackage(t), WithFilter(MustGlob("/global*.xml")))
	require.NoError(t, err)
	defer pkg.Close()

	var names []string
	for _, part := range pkg.Parts() {
		names = append(names, part.Name())
	}
	assert.Equal(t, []string{"/global1dCrs.xml", "/global2dCrs.xml"}, names)

	_, err = pkg.Part("/myTestingGuid.xml")
	assert.True(t, IsPartNotFound(err))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.epc")
	require.NoError(t, os.WriteFile(path, resqmlPackage(t), 0o600))

	pkg, err := OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, pkg.Parts(), 5)
	require.NoError(t, pkg.Close())

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.epc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type memoryReader struct {
	files map[string][]byte
}

func (m *memoryReader) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestOpenFrom(t *testing.T) {
	fsys := &memoryReader{files: map[string][]byte{
		"uploads/model.epc": resqmlPackage(t),
	}}

	pkg, err := OpenFrom(context.Background(), fsys, "uploads/model.epc")
	require.NoError(t, err)
	assert.Len(t, pkg.Parts(), 5)
	require.NoError(t, pkg.Close())

	_, err = OpenFrom(context.Background(), fsys, "uploads/missing.epc")
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = OpenFrom(ctx, fsys, "uploads/model.epc")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = OpenFrom(context.Background(), fsys, "uploads/model.epc", WithMaxPackageSize(64))
	assert.ErrorIs(t, err, ErrLimitExceeded)
}
