package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formsubmit/pkg/adminforms"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

type violation struct {
	file     string
	location string
	message  string
}

func mappingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "mappings",
		Usage: "Lint a directory of field mapping files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Sources:  cli.EnvVars("FORMSUBMIT_MAPPINGS"),
				Usage:    "Directory of JSON/YAML field mapping files",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")
			violations, forms, err := lintMappings(os.DirFS(dir))
			if err != nil {
				return fmt.Errorf("lint %s: %w", dir, err)
			}
			if len(violations) > 0 {
				for _, v := range violations {
					fmt.Fprintf(stderr(cmd), "%s: %s -> %s\n", filepath.Join(dir, v.file), v.location, v.message)
				}
				return cli.Exit(fmt.Sprintf("%d mapping problem(s)", len(violations)), 1)
			}
			fmt.Fprintf(stdout(cmd), "%d form(s) mapped, no problems found\n", forms)
			return nil
		},
	}
}

// lintMappings parses every mapping file in fsys and checks that each form
// id exists and each target lands on a declared field.
func lintMappings(fsys fs.FS) ([]violation, int, error) {
	var (
		violations []violation
		forms      = make(map[string]string)
	)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isMappingFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		set, err := validation.ParseMappings(data, path)
		if err != nil {
			violations = append(violations, violation{file: path, location: "document", message: err.Error()})
			return nil
		}
		for _, formID := range set.Forms() {
			if other, dup := forms[formID]; dup {
				violations = append(violations, violation{
					file:     path,
					location: formID,
					message:  fmt.Sprintf("form already mapped in %s", other),
				})
				continue
			}
			forms[formID] = path
			violations = append(violations, lintForm(path, formID, set.Mappings(formID))...)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	return violations, len(forms), nil
}

func lintForm(file, formID string, mappings []validation.FieldMapping) []violation {
	m, ok := adminforms.Model(formID)
	if !ok {
		return []violation{{file: file, location: formID, message: "unknown form id"}}
	}

	var out []violation
	for idx, mapping := range mappings {
		location := fmt.Sprintf("%s[%d]", formID, idx)
		if mapping.Target != "" {
			if _, ok := m.ResolveField(mapping.Target); !ok {
				out = append(out, violation{file: file, location: location, message: fmt.Sprintf("target %q is not a field of the form", mapping.Target)})
			}
		}
		for code, message := range mapping.Messages {
			if strings.TrimSpace(message) == "" {
				out = append(out, violation{file: file, location: location, message: fmt.Sprintf("code %s has an empty message", code)})
			}
		}
	}
	return out
}

func isMappingFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
