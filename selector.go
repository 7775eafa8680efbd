package opckit

import (
	"fmt"

	"github.com/gobwas/glob"
)

// ============================================================================
// PartSelector Interface
// ============================================================================

// PartSelector filters the parts of a package.
//
// Selectors compose with And, Or and Not:
//
//	// All XML parts under /word that declare a version parameter
//	selector := opckit.And(
//	    opckit.MustGlob("/word/**.xml"),
//	    opckit.HasParameter("version"),
//	)
//	parts := pkg.Select(selector)
type PartSelector interface {
	// Match returns true if the part should be included in results.
	Match(part *Part) bool
}

// ============================================================================
// Built-in Selectors
// ============================================================================

type allSelector struct{}

func (allSelector) Match(*Part) bool { return true }

// All returns a selector that matches every part.
func All() PartSelector {
	return allSelector{}
}

type globSelector struct {
	pattern string
	g       glob.Glob
}

// Glob creates a selector matching part names against a glob pattern.
// "/" separates segments: "*" stays within a segment, "**" crosses them.
// Matching is case-insensitive, like part names.
//
// Examples:
//
//	Glob("/word/*.xml")      // XML parts directly under /word
//	Glob("**/_rels/*.rels")  // every relationships part
//	Glob("/customXml/item?.xml")
func Glob(pattern string) (PartSelector, error) {
	g, err := glob.Compile(partKey(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("invalid part pattern %q: %w", pattern, err)
	}
	return &globSelector{pattern: pattern, g: g}, nil
}

// MustGlob is like Glob but panics if the pattern does not compile
func MustGlob(pattern string) PartSelector {
	s, err := Glob(pattern)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *globSelector) Match(part *Part) bool {
	return s.g.Match(partKey(part.name))
}

func (s *globSelector) String() string {
	return s.pattern
}

type contentTypeSelector struct {
	contentTypes []string
}

// ContentTypeIs matches parts whose canonical content type equals one of
// the given strings exactly.
//
// Example:
//
//	ContentTypeIs(contenttype.RelationshipsPart)
func ContentTypeIs(contentTypes ...string) PartSelector {
	return &contentTypeSelector{contentTypes: contentTypes}
}

func (s *contentTypeSelector) Match(part *Part) bool {
	for _, ct := range s.contentTypes {
		if part.contentType.Is(ct) {
			return true
		}
	}
	return false
}

type parameterSelector struct {
	key     string
	value   string
	present bool
}

// HasParameter matches parts whose content type declares key
func HasParameter(key string) PartSelector {
	return &parameterSelector{key: key, present: true}
}

// ParameterIs matches parts whose content type declares key=value
func ParameterIs(key, value string) PartSelector {
	return &parameterSelector{key: key, value: value}
}

func (s *parameterSelector) Match(part *Part) bool {
	v, ok := part.contentType.Parameter(s.key)
	if !ok {
		return false
	}
	return s.present || v == s.value
}

// RelationshipParts matches relationships parts by name
func RelationshipParts() PartSelector {
	return FuncSelector((*Part).IsRelationshipPart)
}

// ============================================================================
// Composable Selectors (And, Or, Not)
// ============================================================================

type andSelector struct {
	selectors []PartSelector
}

// And matches only if ALL selectors match.
func And(selectors ...PartSelector) PartSelector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(part *Part) bool {
	for _, sel := range s.selectors {
		if !sel.Match(part) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []PartSelector
}

// Or matches if ANY selector matches.
func Or(selectors ...PartSelector) PartSelector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(part *Part) bool {
	for _, sel := range s.selectors {
		if sel.Match(part) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector PartSelector
}

// Not inverts a selector's match result.
func Not(selector PartSelector) PartSelector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(part *Part) bool {
	return !s.selector.Match(part)
}

// ============================================================================
// FuncSelector - Custom logic
// ============================================================================

type funcSelector struct {
	matchFn func(*Part) bool
}

// FuncSelector creates a selector from a custom function.
//
// Example:
//
//	FuncSelector(func(p *opckit.Part) bool {
//	    return p.Size() > 1024 && strings.HasPrefix(p.Name(), "/xl/")
//	})
func FuncSelector(fn func(*Part) bool) PartSelector {
	return &funcSelector{matchFn: fn}
}

func (s *funcSelector) Match(part *Part) bool { return s.matchFn(part) }
