// Package opckit opens Open Packaging Conventions (OPC) containers, the
// ZIP-based format underneath OOXML documents, and exposes their parts
// together with validated content types.
//
// Content type grammar and parsing live in the [contenttype] subpackage;
// this package is the container side: it reads [Content_Types].xml, resolves
// the Default and Override declaration that applies to each part and decides
// what happens when a declaration is invalid.
//
// # Opening a Package
//
//	pkg, err := opckit.OpenFile("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pkg.Close()
//
//	for _, part := range pkg.Parts() {
//	    fmt.Println(part.Name(), part.ContentType())
//	}
//
// Packages can also be read from any filekit filesystem:
//
//	pkg, err := opckit.OpenFrom(ctx, s3Driver, "uploads/model.epc")
//
// # Content Types
//
// Each part carries the parsed content type. String comparison against the
// well-known constants uses the canonical form without parameters:
//
//	part, _ := pkg.Part("/global1dCrs.xml")
//	part.ContentType()                          // "application/x-resqml+xml"
//	part.ContentTypeDetails().Parameter("type") // "obj_global1dCrs", true
//
//	rels := pkg.Select(opckit.ContentTypeIs(contenttype.RelationshipsPart))
//
// # Invalid Declarations
//
// By default the first invalid content type in the manifest, or a part with
// no applicable declaration, fails Open with a [*PartError]. The original
// [*contenttype.InvalidContentTypeError] stays reachable through errors.As.
// WithSkipInvalidParts drops such parts instead.
//
// # Limits
//
// Open enforces zip bomb limits (entry count, total uncompressed size and
// per-entry compression ratio) before reading any part. See [Options].
//
// # Configuration
//
// An [Opener] can be configured via environment variables with the
// BEAVER_OPCKIT_ prefix, or programmatically via the [Config] struct:
//
//	opener, err := opckit.New(&opckit.Config{
//	    MaxParts:         500,
//	    SkipInvalidParts: true,
//	    PartFilter:       "/word/**",
//	})
package opckit
