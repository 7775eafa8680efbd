package contenttype

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the longest content type accepted by Validate and Parse.
const DefaultMaxLength = 1024

// Parser validates and parses content types under a length limit.
// The zero value uses DefaultMaxLength.
type Parser struct {
	// MaxLength is the maximum content type length in bytes.
	// Zero or a negative value means DefaultMaxLength.
	MaxLength int
}

// NewParser creates a parser with the given length limit
func NewParser(maxLength int) *Parser {
	return &Parser{MaxLength: maxLength}
}

var defaultParser = &Parser{}

// Validate reports whether raw is an acceptable OPC content type.
// It returns nil or an *InvalidContentTypeError naming the first violated rule.
func Validate(raw string) error {
	return defaultParser.Validate(raw)
}

// Validate reports whether raw is an acceptable OPC content type
func (p *Parser) Validate(raw string) error {
	_, err := p.scan(raw)
	return err
}

func (p *Parser) maxLength() int {
	if p == nil || p.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return p.MaxLength
}

// scan runs the ordered rule checklist over raw. On success the returned
// value holds the type, subtype and parameters.
func (p *Parser) scan(raw string) (*ContentType, error) {
	if raw == "" {
		return nil, newError(raw, RuleEmpty, "", -1)
	}
	if len(raw) > p.maxLength() {
		return nil, newError(raw, RuleTooLong, "", -1)
	}

	for i := 0; i < len(raw); i++ {
		if isIllegal(raw[i]) {
			return nil, newError(raw, RuleIllegalCharacter, offendingRune(raw, i), i)
		}
	}

	if i := strings.IndexAny(raw, "()"); i >= 0 {
		return nil, newError(raw, RuleComment, raw[i:i+1], i)
	}

	if i := strings.IndexByte(raw, ' '); i >= 0 {
		return nil, newError(raw, RuleWhitespace, " ", i)
	}

	slash := strings.IndexByte(raw, '/')
	if slash < 0 {
		return nil, newError(raw, RuleMissingSlash, "", -1)
	}
	mainType := raw[:slash]
	if mainType == "" {
		return nil, newError(raw, RuleEmptyType, "", 0)
	}
	if i := firstNonToken(mainType); i >= 0 {
		return nil, newError(raw, RuleInvalidType, mainType[i:i+1], i)
	}

	rest := raw[slash+1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return nil, newError(raw, RuleExtraSlash, "/", slash+1+i)
	}

	subType, tail, hasParams := strings.Cut(rest, ";")
	if subType == "" {
		return nil, newError(raw, RuleEmptySubtype, "", slash+1)
	}
	if i := firstNonToken(subType); i >= 0 {
		return nil, newError(raw, RuleInvalidSubtype, subType[i:i+1], slash+1+i)
	}

	ct := &ContentType{mainType: mainType, subType: subType}
	if !hasParams {
		return ct, nil
	}

	params, err := scanParameters(raw, tail, slash+1+len(subType)+1)
	if err != nil {
		return nil, err
	}
	ct.params = params
	return ct, nil
}

// scanParameters parses the ";"-separated clauses following the subtype.
// offset is the position of tail within raw.
func scanParameters(raw, tail string, offset int) (parameters, error) {
	var params parameters
	pos := offset
	for _, clause := range strings.Split(tail, ";") {
		key, value, ok := strings.Cut(clause, "=")
		switch {
		case !ok, key == "", value == "":
			return parameters{}, newError(raw, RuleMalformedParameter, clause, pos)
		case firstNonToken(key) >= 0, firstNonToken(value) >= 0:
			return parameters{}, newError(raw, RuleMalformedParameter, clause, pos)
		}
		if _, dup := params.get(key); dup {
			return parameters{}, newError(raw, RuleDuplicateParameter, key, pos)
		}
		params.add(key, value)
		pos += len(clause) + 1
	}
	return params, nil
}

// offendingRune returns the character at byte offset i, decoded as UTF-8 when
// possible so non-ASCII input is reported as the rune the caller wrote.
func offendingRune(s string, i int) string {
	r, size := utf8.DecodeRuneInString(s[i:])
	if r == utf8.RuneError && size <= 1 {
		return s[i : i+1]
	}
	return s[i : i+size]
}
