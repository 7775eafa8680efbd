// Package contenttype validates and parses the content types attached to the
// parts of an Open Packaging Conventions (OPC) container.
//
// OPC requires part content types to follow the RFC 2616 media-type syntax
// with further restrictions: no comments, no linear whitespace, no quoted
// parameter values and no characters outside printable US-ASCII. The grammar
// accepted here is
//
//	token "/" token *( ";" token "=" token )
//
// # Parsing
//
//	ct, err := contenttype.Parse("application/x-resqml+xml;version=2.0;type=obj_global1dCrs")
//	if err != nil {
//	    return err
//	}
//	ct.String()               // "application/x-resqml+xml"
//	ct.Parameter("version")   // "2.0", true
//	ct.StringWithParameters() // "application/x-resqml+xml;version=2.0;type=obj_global1dCrs"
//
// # Error Handling
//
// Every rejection is an [*InvalidContentTypeError] carrying the rule that
// failed. The checks run in a fixed order and the first failure wins:
//
//	_, err := contenttype.Parse("text/xml(comment)")
//	contenttype.IsRule(err, contenttype.RuleComment) // true
//	errors.Is(err, contenttype.ErrInvalidContentType) // true
//
// Parsed values are immutable and can be shared between goroutines.
package contenttype
