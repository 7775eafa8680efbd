package contenttype

import "strings"

// Content types defined by the Open Packaging Conventions and commonly found
// in OOXML packages. Compare them against ContentType.String().
const (
	CorePropertiesPart               = "application/vnd.openxmlformats-package.core-properties+xml"
	DigitalSignatureCertificatePart  = "application/vnd.openxmlformats-package.digital-signature-certificate"
	DigitalSignatureOriginPart       = "application/vnd.openxmlformats-package.digital-signature-origin"
	DigitalSignatureXMLSignaturePart = "application/vnd.openxmlformats-package.digital-signature-xmlsignature+xml"
	RelationshipsPart                = "application/vnd.openxmlformats-package.relationships+xml"
	CustomXMLPart                    = "application/vnd.openxmlformats-officedocument.customXmlProperties+xml"
	PlainOldXML                      = "application/xml"
	XML                              = "text/xml"
	ExtendedPropertiesPart           = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	CustomPropertiesPart             = "application/vnd.openxmlformats-officedocument.custom-properties+xml"
	ThemePart                        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ImageJPEG                        = "image/jpeg"
	ImagePNG                         = "image/png"
	ImageGIF                         = "image/gif"
	ImageTIFF                        = "image/tiff"
	ImagePICT                        = "image/pict"
	ImageEMF                         = "image/x-emf"
	ImageWMF                         = "image/x-wmf"
	ImageBMP                         = "image/bmp"
)

var extensionToContentType = map[string]string{
	"png":  ImagePNG,
	"gif":  ImageGIF,
	"jpg":  ImageJPEG,
	"jpeg": ImageJPEG,
	"tif":  ImageTIFF,
	"tiff": ImageTIFF,
	"pct":  ImagePICT,
	"pict": ImagePICT,
	"emf":  ImageEMF,
	"wmf":  ImageWMF,
	"bmp":  ImageBMP,
	"rels": RelationshipsPart,
	"xml":  PlainOldXML,
}

// ForExtension returns the well-known content type for a file extension,
// with or without the leading dot. It returns empty string if unknown.
func ForExtension(ext string) string {
	return extensionToContentType[strings.ToLower(strings.TrimPrefix(ext, "."))]
}
