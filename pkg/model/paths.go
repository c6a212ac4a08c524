package model

import (
	"strconv"
	"strings"
)

// FieldPaths lists every dotted field path declared by the form, including
// nested object members and array item members, in declaration order.
func (m FormModel) FieldPaths() []string {
	var out []string
	collectFieldPaths(m.Fields, "", func(path string) {
		out = append(out, path)
	})
	return out
}

// ResolveField lands a server reported path on the deepest declared field.
// Segments compare case-insensitively and trailing segments below a declared
// leaf are dropped, so "DataFile.Size" resolves to "dataFile". Array indices
// are kept: "Roles[2].RoleId" arrives as "Roles.2.RoleId" and resolves to
// "roles.2.roleId". It reports false when no prefix of the path is a field.
func (m FormModel) ResolveField(path string) (string, bool) {
	folded := make(map[string]string)
	collectFieldPaths(m.Fields, "", func(candidate string) {
		folded[strings.ToLower(candidate)] = candidate
	})
	if len(folded) == 0 {
		return "", false
	}

	segments := splitSegments(path)
	for end := len(segments); end > 0; end-- {
		if isIndex(segments[end-1]) {
			continue
		}
		candidate := strings.ToLower(strings.Join(stripNumericSegments(segments[:end]), "."))
		match, ok := folded[candidate]
		if !ok {
			continue
		}
		if end < len(segments) && isIndex(segments[end]) {
			end++
		}
		return withIndices(segments[:end], strings.Split(match, ".")), true
	}
	return "", false
}

// withIndices spells raw with the declared names, keeping index segments.
func withIndices(raw, declared []string) string {
	out := make([]string, 0, len(raw))
	next := 0
	for _, segment := range raw {
		if isIndex(segment) || next >= len(declared) {
			out = append(out, segment)
			continue
		}
		out = append(out, declared[next])
		next++
	}
	return strings.Join(out, ".")
}

func splitSegments(path string) []string {
	var out []string
	for _, segment := range strings.Split(strings.TrimSpace(path), ".") {
		if segment = strings.TrimSpace(segment); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func isIndex(segment string) bool {
	_, err := strconv.Atoi(segment)
	return err == nil
}

func collectFieldPaths(fields []Field, prefix string, visit func(string)) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := joinPath(prefix, name)
		visit(path)

		if len(field.Nested) > 0 {
			collectFieldPaths(field.Nested, path, visit)
		}
		if field.Items != nil {
			collectItemPaths(field.Items, path, visit)
		}
	}
}

func collectItemPaths(item *Field, prefix string, visit func(string)) {
	if item == nil {
		return
	}
	if len(item.Nested) > 0 {
		collectFieldPaths(item.Nested, prefix, visit)
	}
	if item.Items != nil {
		collectItemPaths(item.Items, prefix, visit)
	}
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || isIndex(segment) {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
