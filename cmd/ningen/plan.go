package ningen

import (
	"strings"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/loop"
	"github.com/arthur-debert/ningen/pkg/output"
	"github.com/arthur-debert/ningen/pkg/plan"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	var rule string

	cmd := &cobra.Command{
		Use:     "plan [file]",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Example: MsgPlanExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.plan")

			path := a.cfg.PlanFile
			if len(args) == 1 {
				path = args[0]
			}

			p, err := plan.Load(afero.NewOsFs(), path)
			if err != nil {
				return err
			}

			if rule != "" {
				r, ok := p.Rule(rule)
				if !ok {
					return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownRule, rule).
						WithDetail("rule", rule)
				}
				p.Rules = []plan.Rule{r}
			}

			items, err := plan.Generate(p, loop.WithRoot(a.cfg.Root))
			if err != nil {
				return err
			}

			logger.Info().
				Str("plan", path).
				Int("rules", len(p.Rules)).
				Int("items", len(items)).
				Msg("Plan generated")

			table := output.NewTable("rule", "path", "binding", "inputs", "outputs", "command")
			for _, item := range items {
				table.Add(
					item.Rule,
					item.Path,
					item.Binding.String(),
					strings.Join(item.Inputs, " "),
					strings.Join(item.Outputs, " "),
					item.Command,
				)
			}
			return a.renderer.Render(table)
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "", MsgFlagRule)

	return cmd
}
