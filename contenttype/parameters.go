package contenttype

// Parameter is a single key=value pair attached to a content type
type Parameter struct {
	Key   string
	Value string
}

// parameters is an insertion-ordered set of unique keys.
type parameters struct {
	keys   []string
	values map[string]string
}

func (p *parameters) add(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	p.keys = append(p.keys, key)
	p.values[key] = value
}

func (p parameters) get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p parameters) len() int {
	return len(p.keys)
}
