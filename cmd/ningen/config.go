package ningen

import (
	"strings"

	"github.com/arthur-debert/ningen/pkg/output"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := MsgNoSources
			if len(a.cfg.Sources) > 0 {
				sources = strings.Join(a.cfg.Sources, " ")
			}

			table := output.NewTable("key", "value")
			table.Add("root", a.cfg.Root)
			table.Add("plan_file", a.cfg.PlanFile)
			table.Add("output", a.cfg.Output)
			table.Add("color", a.cfg.Color)
			table.Add("styles_file", a.cfg.StylesFile)
			table.Add("sources", sources)
			return a.renderer.Render(table)
		},
	}
}
