package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Path addresses a value inside a submitted payload. Segments are field names
// or decimal array indices. A zero Path means the failure is form-level.
type Path []string

// ParsePath normalises the path notations services emit (dotted, bracketed,
// JSON pointer, JSONPath-ish) into a Path. Leading request wrappers such as
// "body" or "payload" are dropped so paths line up with form field names.
// Form-level keys ("", "#", "non_field_errors", ...) yield a zero Path.
func ParsePath(raw string) Path {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return nil
	}
	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return nil
	}
	return Path(segments)
}

// PathOf builds a Path from mixed string and integer segments.
func PathOf(segments ...any) Path {
	out := make(Path, 0, len(segments))
	for _, segment := range segments {
		switch typed := segment.(type) {
		case string:
			if trimmed := strings.TrimSpace(typed); trimmed != "" {
				out = append(out, trimmed)
			}
		case int:
			out = append(out, strconv.Itoa(typed))
		case int64:
			out = append(out, strconv.FormatInt(typed, 10))
		case float64:
			// Only whole numbers address array elements.
			if typed == math.Trunc(typed) && !math.IsInf(typed, 0) {
				out = append(out, strconv.FormatInt(int64(typed), 10))
			} else {
				out = append(out, strconv.FormatFloat(typed, 'f', -1, 64))
			}
		default:
			out = append(out, fmt.Sprint(typed))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// IsZero reports whether the path is empty (form-level).
func (p Path) IsZero() bool {
	return len(p) == 0
}

// String renders the path in dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Equal compares two paths segment by segment, ignoring case. Services often
// emit PascalCase member names for camelCase form fields.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !strings.EqualFold(p[i], other[i]) {
			return false
		}
	}
	return true
}

// WithoutIndices returns the path with array index segments removed.
func (p Path) WithoutIndices() Path {
	return Path(stripNumericSegments(p))
}

// MarshalJSON encodes the path as an array, with index segments as numbers.
func (p Path) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	out := make([]any, 0, len(p))
	for _, segment := range p {
		if idx, err := strconv.Atoi(segment); err == nil {
			out = append(out, idx)
			continue
		}
		out = append(out, segment)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts a string in any notation ParsePath understands or an
// array mixing strings and integers.
func (p *Path) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*p = ParsePath(raw)
		return nil
	}

	var segments []any
	if err := json.Unmarshal(trimmed, &segments); err != nil {
		return fmt.Errorf("validation: path must be a string or array: %w", err)
	}
	parsed := PathOf(segments...)
	*p = Path(dropWrapperSegments(parsed))
	if len(*p) == 0 {
		*p = nil
	}
	return nil
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	// Keep the last segment even if it looks like a wrapper; a field may
	// legitimately be called "data".
	for len(out) > 1 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	if len(segments) == 0 {
		return nil
	}

	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
