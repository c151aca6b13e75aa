package ningen

import (
	"slices"

	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/loop"
	"github.com/arthur-debert/ningen/pkg/output"
	"github.com/arthur-debert/ningen/pkg/values"
	"github.com/spf13/cobra"
)

func newForeachCmd(a *app) *cobra.Command {
	var (
		sets  []string
		where string
	)

	cmd := &cobra.Command{
		Use:     "foreach [pattern...]",
		Short:   MsgForeachShort,
		Long:    MsgForeachLong,
		Example: MsgForeachExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.foreach")

			named, err := values.ParseAssignments(sets)
			if err != nil {
				return err
			}

			pattern := values.None
			if len(args) > 0 {
				pattern = values.List(args...)
			}

			l, err := loop.New(loop.WithRoot(a.cfg.Root), loop.WithFilter(where))
			if err != nil {
				return err
			}

			var iterations []loop.Iteration
			for it, err := range l.Foreach(pattern, named) {
				if err != nil {
					return err
				}
				iterations = append(iterations, it)
			}

			logger.Info().
				Strs("patterns", args).
				Int("combinations", len(iterations)).
				Msg("Foreach completed")

			return a.renderer.Render(iterationTable(!pattern.IsNone(), iterations))
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, MsgFlagSet)
	cmd.Flags().StringVarP(&where, "where", "w", "", MsgFlagWhere)

	return cmd
}

// iterationTable lays iterations out with one column per bound name, in
// the order names are first seen
func iterationTable(withPath bool, iterations []loop.Iteration) *output.Table {
	var names []string
	for _, it := range iterations {
		for _, name := range it.Binding.Names() {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	columns := names
	if withPath {
		columns = append([]string{"path"}, names...)
	}
	table := output.NewTable(columns...)

	for _, it := range iterations {
		row := make([]string, 0, len(columns))
		if withPath {
			row = append(row, it.Path)
		}
		for _, name := range names {
			v, _ := it.Binding.Get(name)
			row = append(row, v)
		}
		table.Add(row...)
	}
	return table
}
