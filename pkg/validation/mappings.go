package validation

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MappingSet holds declarative field mappings keyed by form id, typically
// loaded from JSON or YAML files so message copy can change without a build.
type MappingSet struct {
	forms map[string][]FieldMapping
}

type mappingFile struct {
	Forms map[string][]FieldMapping `json:"forms" yaml:"forms"`
}

// LoadMappings walks fsys and parses every .json, .yaml and .yml file. A nil
// filesystem yields an empty set.
func LoadMappings(fsys fs.FS) (*MappingSet, error) {
	set := &MappingSet{forms: make(map[string][]FieldMapping)}
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isMappingFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("validation: read %s: %w", path, err)
		}

		parsed, err := ParseMappings(data, path)
		if err != nil {
			return err
		}
		return set.Merge(parsed)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ParseMappings decodes a single mapping document. source is used in errors.
func ParseMappings(data []byte, source string) (*MappingSet, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("validation: mapping file %s is empty", source)
	}

	var doc mappingFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("validation: parse %s: invalid JSON or YAML", source)
		}
	}

	set := &MappingSet{forms: make(map[string][]FieldMapping, len(doc.Forms))}
	for rawID, mappings := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("validation: file %s defines an empty form id", source)
		}
		for idx, mapping := range mappings {
			if len(mapping.Messages) == 0 {
				return nil, fmt.Errorf("validation: file %s form %q mapping %d has no messages", source, id, idx)
			}
		}
		set.forms[id] = cloneMappings(mappings)
	}
	return set, nil
}

// Merge adds the forms of other. Defining the same form twice is an error.
func (s *MappingSet) Merge(other *MappingSet) error {
	if s == nil {
		return fmt.Errorf("validation: mapping set is nil")
	}
	if other == nil {
		return nil
	}
	if s.forms == nil {
		s.forms = make(map[string][]FieldMapping, len(other.forms))
	}
	for id, mappings := range other.forms {
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("validation: duplicate mappings for form %q", id)
		}
		s.forms[id] = cloneMappings(mappings)
	}
	return nil
}

// Mappings returns a copy of the mappings declared for a form.
func (s *MappingSet) Mappings(formID string) []FieldMapping {
	if s == nil {
		return nil
	}
	return cloneMappings(s.forms[strings.TrimSpace(formID)])
}

// Mappers compiles the mappings declared for a form.
func (s *MappingSet) Mappers(formID string) []FieldMessageMapper {
	return MapAll(s.Mappings(formID)...)
}

// Forms lists the form ids in the set, sorted.
func (s *MappingSet) Forms() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the set declares no forms.
func (s *MappingSet) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func cloneMappings(src []FieldMapping) []FieldMapping {
	if len(src) == 0 {
		return nil
	}
	out := make([]FieldMapping, len(src))
	for i, mapping := range src {
		messages := make(map[string]string, len(mapping.Messages))
		for code, message := range mapping.Messages {
			messages[code] = message
		}
		out[i] = FieldMapping{
			Target:   strings.TrimSpace(mapping.Target),
			Messages: messages,
		}
	}
	return out
}

func isMappingFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
