package opckit

import (
	"errors"
	"path"
	"strings"
)

// validatePartName checks the part name syntax of OPC Part 2 §9.1.1:
// a leading "/", non-empty segments, no "." or ".." segments, no segment
// ending with "." and no trailing "/".
func validatePartName(name string) error {
	if name == "" {
		return errors.New("empty part name")
	}
	if !strings.HasPrefix(name, "/") {
		return errors.New("part name must start with '/'")
	}
	if strings.HasSuffix(name, "/") {
		return errors.New("part name must not end with '/'")
	}
	for _, seg := range strings.Split(name[1:], "/") {
		switch {
		case seg == "":
			return errors.New("empty segment")
		case seg == "." || seg == "..":
			return errors.New("relative segment")
		case strings.HasSuffix(seg, "."):
			return errors.New("segment ends with '.'")
		}
	}
	return nil
}

// partKey returns the comparison key of a part name. Part names compare
// ASCII case-insensitively.
func partKey(name string) string {
	return strings.ToLower(name)
}

// partNameFromZip converts a zip entry name into a part name
func partNameFromZip(entry string) string {
	return "/" + strings.TrimPrefix(entry, "/")
}

// isRelationshipPartName reports whether name addresses a relationships part,
// i.e. "<dir>/_rels/<source>.rels"
func isRelationshipPartName(name string) bool {
	return path.Base(path.Dir(name)) == "_rels" && strings.HasSuffix(strings.ToLower(name), ".rels")
}
