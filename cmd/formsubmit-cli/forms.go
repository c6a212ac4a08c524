package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formsubmit/pkg/adminforms"
)

func formsCommand() *cli.Command {
	return &cli.Command{
		Name:  "forms",
		Usage: "List the forms that can be submitted",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := stdout(cmd)
			for _, id := range adminforms.FormIDs() {
				m, _ := adminforms.Model(id)
				line := fmt.Sprintf("%-26s %s", id, m.Title)
				if params := adminforms.RequiredParams(id); len(params) > 0 {
					line += " (params: " + strings.Join(params, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
