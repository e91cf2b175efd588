package report

import (
	"encoding/json"

	"github.com/PaesslerAG/jsonpath"
)

// Accessor names understood by Lookup.
const (
	AccessorGetValue = "getValue"
	AccessorJSONPath = "jsonPath"
)

// Lookup resolves key against the store data. getValue reads the named
// amounts of the definition; jsonPath evaluates key as a JSONPath
// expression over the JSON form of the data.
func (s *Store[T]) Lookup(accessor, key string) (any, bool) {
	data := s.Data()

	switch accessor {
	case AccessorGetValue:
		if s.def.Values == nil {
			return nil, false
		}
		v, ok := s.def.Values(data)[key]
		return v, ok
	case AccessorJSONPath:
		return evalJSONPath(data, key)
	}
	return nil, false
}

func evalJSONPath(data any, path string) (any, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}

	v, err := jsonpath.Get(path, doc)
	if err != nil || v == nil {
		return nil, false
	}
	// wildcard paths return a list; a single match is unwrapped
	if list, ok := v.([]any); ok {
		if len(list) != 1 {
			return nil, false
		}
		v = list[0]
	}
	return v, true
}
