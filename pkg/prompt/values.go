package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// Values is a tree of collected answers keyed by field name. Objects are
// nested maps, arrays are []any and files are path strings, so the tree
// decodes straight into typed form values with encoding/json.
type Values map[string]any

// Get resolves a dotted path.
func (v Values) Get(path string) (any, bool) {
	if v == nil || path == "" {
		return nil, false
	}
	var current any = map[string]any(v)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes a value at a dotted path, creating intermediate maps and growing
// slices as needed. A nil value removes a map key.
func (v Values) Set(path string, value any) error {
	if v == nil {
		return fmt.Errorf("prompt: values are nil")
	}
	if _, err := setIn(map[string]any(v), strings.Split(path, "."), value); err != nil {
		return fmt.Errorf("prompt: set %s: %w", path, err)
	}
	return nil
}

func setIn(node any, segments []string, value any) (any, error) {
	segment := segments[0]
	last := len(segments) == 1

	if idx, err := strconv.Atoi(segment); err == nil {
		if idx < 0 {
			return nil, fmt.Errorf("negative index %d", idx)
		}
		list, _ := node.([]any)
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		if last {
			list[idx] = value
			return list, nil
		}
		child, err := setIn(list[idx], segments[1:], value)
		if err != nil {
			return nil, err
		}
		list[idx] = child
		return list, nil
	}

	m, ok := node.(map[string]any)
	if !ok || m == nil {
		m = make(map[string]any)
	}
	if last {
		if value == nil {
			delete(m, segment)
		} else {
			m[segment] = value
		}
		return m, nil
	}
	child, err := setIn(m[segment], segments[1:], value)
	if err != nil {
		return nil, err
	}
	m[segment] = child
	return m, nil
}

// Clone deep-copies the tree.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = deepCopy(val)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
