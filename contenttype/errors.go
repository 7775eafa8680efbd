package contenttype

import (
	"errors"
	"fmt"
)

// ErrInvalidContentType matches every error returned by Validate and Parse
// through errors.Is.
var ErrInvalidContentType = errors.New("invalid content type")

// Rule identifies the grammar rule a content type violated
type Rule string

const (
	RuleEmpty              Rule = "empty"
	RuleTooLong            Rule = "too-long"
	RuleIllegalCharacter   Rule = "illegal-character"
	RuleComment            Rule = "comment"
	RuleWhitespace         Rule = "linear-whitespace"
	RuleMissingSlash       Rule = "missing-slash"
	RuleEmptyType          Rule = "empty-type"
	RuleInvalidType        Rule = "invalid-type"
	RuleExtraSlash         Rule = "extra-slash"
	RuleEmptySubtype       Rule = "empty-subtype"
	RuleInvalidSubtype     Rule = "invalid-subtype"
	RuleMalformedParameter Rule = "malformed-parameter"
	RuleDuplicateParameter Rule = "duplicate-parameter"
)

var ruleMessages = map[Rule]string{
	RuleEmpty:              "content type is empty",
	RuleTooLong:            "content type exceeds maximum length",
	RuleIllegalCharacter:   "illegal character",
	RuleComment:            "comments are not allowed",
	RuleWhitespace:         "linear whitespace is not allowed",
	RuleMissingSlash:       "missing '/' between type and subtype",
	RuleEmptyType:          "empty type",
	RuleInvalidType:        "type is not a token",
	RuleExtraSlash:         "more than one '/'",
	RuleEmptySubtype:       "empty subtype",
	RuleInvalidSubtype:     "subtype is not a token",
	RuleMalformedParameter: "malformed parameter",
	RuleDuplicateParameter: "duplicate parameter",
}

// String returns a short human-readable description of the rule
func (r Rule) String() string {
	if msg, ok := ruleMessages[r]; ok {
		return msg
	}
	return string(r)
}

// InvalidContentTypeError reports a content type that failed validation.
type InvalidContentTypeError struct {
	// ContentType is the raw string as supplied by the caller.
	ContentType string

	// Rule is the first grammar rule the string violated.
	Rule Rule

	// Offending is the substring that triggered the rule, if any.
	Offending string

	// Position is the byte offset of Offending in ContentType, or -1.
	Position int
}

// Error implements the error interface
func (e *InvalidContentTypeError) Error() string {
	if e.Offending == "" {
		return fmt.Sprintf("invalid content type %q: %s", e.ContentType, e.Rule)
	}
	return fmt.Sprintf("invalid content type %q: %s: %q at offset %d", e.ContentType, e.Rule, e.Offending, e.Position)
}

// Is reports whether target is ErrInvalidContentType
func (e *InvalidContentTypeError) Is(target error) bool {
	return target == ErrInvalidContentType
}

func newError(raw string, rule Rule, offending string, pos int) *InvalidContentTypeError {
	return &InvalidContentTypeError{
		ContentType: raw,
		Rule:        rule,
		Offending:   offending,
		Position:    pos,
	}
}

// IsInvalidContentType checks if an error is an InvalidContentTypeError
func IsInvalidContentType(err error) bool {
	var ctErr *InvalidContentTypeError
	return errors.As(err, &ctErr)
}

// IsRule checks if an error is an InvalidContentTypeError for the given rule
func IsRule(err error, rule Rule) bool {
	var ctErr *InvalidContentTypeError
	if errors.As(err, &ctErr) {
		return ctErr.Rule == rule
	}
	return false
}

// GetRule returns the violated rule, or empty string if err is not an InvalidContentTypeError
func GetRule(err error) Rule {
	var ctErr *InvalidContentTypeError
	if errors.As(err, &ctErr) {
		return ctErr.Rule
	}
	return ""
}
