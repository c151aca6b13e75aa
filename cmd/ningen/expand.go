package ningen

import (
	"github.com/arthur-debert/ningen/pkg/loop"
	"github.com/arthur-debert/ningen/pkg/output"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/spf13/cobra"
)

func newExpandCmd(a *app) *cobra.Command {
	var (
		sets  []string
		where string
	)

	cmd := &cobra.Command{
		Use:     "expand template...",
		Short:   MsgExpandShort,
		Long:    MsgExpandLong,
		Example: MsgExpandExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			named, err := values.ParseAssignments(sets)
			if err != nil {
				return err
			}

			l, err := loop.New(loop.WithFilter(where))
			if err != nil {
				return err
			}

			results, err := l.Expand(values.List(args...), named)
			if err != nil {
				return err
			}

			table := output.NewTable("value")
			for _, s := range results {
				table.Add(s)
			}
			return a.renderer.Render(table)
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, MsgFlagSet)
	cmd.Flags().StringVarP(&where, "where", "w", "", MsgFlagWhere)

	return cmd
}
