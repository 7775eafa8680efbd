package contenttype

import (
	"strings"
)

// ContentType is a validated OPC content type.
// Values are immutable and safe for concurrent use.
type ContentType struct {
	mainType string
	subType  string
	params   parameters
}

// Parse validates raw and returns the parsed content type.
// On failure it returns an *InvalidContentTypeError and no value.
func Parse(raw string) (*ContentType, error) {
	return defaultParser.Parse(raw)
}

// Parse validates raw and returns the parsed content type
func (p *Parser) Parse(raw string) (*ContentType, error) {
	return p.scan(raw)
}

// MustParse is like Parse but panics if raw is not a valid content type.
// It is intended for package-level constants.
func MustParse(raw string) *ContentType {
	ct, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ct
}

// Type returns the main type, e.g. "application"
func (c *ContentType) Type() string {
	return c.mainType
}

// Subtype returns the subtype, e.g. "vnd.openxmlformats-package.relationships+xml"
func (c *ContentType) Subtype() string {
	return c.subType
}

// String returns the canonical "type/subtype" form without parameters.
// This is the value compared against the well-known content types.
func (c *ContentType) String() string {
	return c.mainType + "/" + c.subType
}

// StringWithParameters returns "type/subtype" followed by ";key=value" for
// each parameter in the order they were declared.
func (c *ContentType) StringWithParameters() string {
	if c.params.len() == 0 {
		return c.String()
	}

	var b strings.Builder
	b.WriteString(c.mainType)
	b.WriteByte('/')
	b.WriteString(c.subType)
	for _, k := range c.params.keys {
		b.WriteByte(';')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c.params.values[k])
	}
	return b.String()
}

// HasParameters reports whether any parameter was declared
func (c *ContentType) HasParameters() bool {
	return c.params.len() > 0
}

// ParameterKeys returns the parameter keys in declaration order
func (c *ContentType) ParameterKeys() []string {
	keys := make([]string, len(c.params.keys))
	copy(keys, c.params.keys)
	return keys
}

// Parameter returns the value for key. Keys match exactly, case included.
func (c *ContentType) Parameter(key string) (string, bool) {
	return c.params.get(key)
}

// Parameters returns the key/value pairs in declaration order
func (c *ContentType) Parameters() []Parameter {
	out := make([]Parameter, 0, c.params.len())
	for _, k := range c.params.keys {
		out = append(out, Parameter{Key: k, Value: c.params.values[k]})
	}
	return out
}

// Is reports whether the canonical form equals wellKnown exactly
func (c *ContentType) Is(wellKnown string) bool {
	return c.String() == wellKnown
}

// Equal reports whether both content types have the same type, subtype and
// parameters in the same order. Comparison is case-sensitive.
func (c *ContentType) Equal(other *ContentType) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.mainType != other.mainType || c.subType != other.subType {
		return false
	}
	if c.params.len() != other.params.len() {
		return false
	}
	for i, k := range c.params.keys {
		if other.params.keys[i] != k || other.params.values[k] != c.params.values[k] {
			return false
		}
	}
	return true
}
