package contenttype

// charClass describes how a byte may appear in an OPC content type.
//
// From RFC 2616 §2.2, restricted by OPC Part 2 §10.1.2:
//
//	CTL        = <any US-ASCII control character (octets 0 - 31) and DEL (127)>
//	separators = "(" | ")" | "<" | ">" | "@"
//	           | "," | ";" | ":" | "\" | <">
//	           | "/" | "[" | "]" | "?" | "="
//	           | "{" | "}" | SP
//	token      = 1*<any CHAR except CTLs or separators>
//
// Unlike RFC 2616, HT is not a separator here but an illegal character, and
// every octet above 126 is illegal.
type charClass uint8

const (
	classIllegal charClass = 1 << iota
	classSeparator
	classToken
)

var charClasses [256]charClass

func init() {
	for c := 0; c < 256; c++ {
		var t charClass
		switch {
		case c < 0x20 || c == 0x7f || c > 0x7e:
			t = classIllegal
		default:
			switch c {
			case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}', ' ':
				t = classSeparator
			default:
				t = classToken
			}
		}
		charClasses[c] = t
	}
}

func isIllegal(c byte) bool { return charClasses[c] == classIllegal }

// firstNonToken returns the index of the first byte in s that is not a token
// char, or -1 if s consists of token chars only.
func firstNonToken(s string) int {
	for i := 0; i < len(s); i++ {
		if charClasses[s[i]] != classToken {
			return i
		}
	}
	return -1
}
