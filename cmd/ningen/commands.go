package ningen

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/ningen/internal/version"
	"github.com/arthur-debert/ningen/pkg/cobrax/topics"
	"github.com/arthur-debert/ningen/pkg/config"
	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/output"
	"github.com/arthur-debert/ningen/pkg/output/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// app holds the state shared by all commands of one invocation
type app struct {
	verbosity  int
	root       string
	outputName string
	color      string
	projectDir string

	cfg      *config.Config
	renderer *output.Renderer
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ningen",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.root, "root", "C", ".", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVarP(&a.outputName, "output", "o", "text", MsgFlagOutput)
	rootCmd.PersistentFlags().StringVar(&a.color, "color", config.ColorAuto, MsgFlagColor)
	rootCmd.PersistentFlags().StringVar(&a.projectDir, "project", ".", MsgFlagProject)

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ColorAuto, config.ColorAlways, config.ColorNever}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newForeachCmd(a))
	rootCmd.AddCommand(newExpandCmd(a))
	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	topicFiles, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		opts := topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(isTerminal(os.Stdout)),
		}
		_, err = topics.Initialize(rootCmd, topicFiles, opts)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// configure loads the configuration with the flags the user set on top and
// prepares the renderer
func (a *app) configure(cmd *cobra.Command) error {
	overrides := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("root") {
		overrides["root"] = a.root
	}
	if flags.Changed("output") {
		overrides["output"] = a.outputName
	}
	if flags.Changed("color") {
		overrides["color"] = a.color
	}

	cfg, err := config.Load(config.Options{
		ProjectDir: a.projectDir,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.StylesFile != "" {
		if err := styles.LoadStyles(afero.NewOsFs(), cfg.StylesFile); err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "cannot load styles").
				WithDetail("path", cfg.StylesFile)
		}
	}

	colored := colorEnabled(cfg.Color, os.Stdout)
	a.renderer, err = output.NewRenderer(cmd.OutOrStdout(), cfg.Output, !colored)
	if err != nil {
		return err
	}
	if cfg.Color == config.ColorAlways {
		a.renderer.ForceColor()
	}
	return nil
}

// colorEnabled resolves a colour setting for output written to f
func colorEnabled(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return isTerminal(f)
	}
}

// ReportError writes err to w in the error style. Colour follows whether
// stderr is a terminal.
func ReportError(w io.Writer, err error) {
	r, rerr := output.NewRenderer(w, string(output.FormatText), !isTerminal(os.Stderr))
	if rerr == nil && r.RenderError(err) == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
