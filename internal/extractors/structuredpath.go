package extractors

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// structuredPathExtractor implements STRUCTURED_PATH: config = "a.b.c",
// walking a JSON-like structure by dotted segments. Collects every
// element when the terminal value is an array rather than returning
// only the first.
type structuredPathExtractor struct{}

func (structuredPathExtractor) Supports(string) bool { return true }

func (structuredPathExtractor) ExtractIDs(content, config string) []string {
	var root interface{}
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return nil
	}
	segs := strings.Split(strings.TrimSpace(config), ".")
	v, ok := valueAt(root, segs)
	if !ok {
		return nil
	}
	return stringify(v)
}

func valueAt(root interface{}, segs []string) (interface{}, bool) {
	cur := root
	for _, s := range segs {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[s]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			idx, err := strconv.Atoi(s)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// stringify renders the terminal value: a primitive becomes a single
// stringified entry, an array becomes one entry per element.
func stringify(v interface{}) []string {
	switch vv := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, primitiveString(item))
		}
		return out
	default:
		return []string{primitiveString(v)}
	}
}

func primitiveString(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", vv)
	}
}
