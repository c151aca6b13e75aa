package ningen

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Generate build descriptions from capture patterns and value combinations"
	MsgForeachShort    = "List every combination of captured files and values"
	MsgExpandShort     = "Expand templates with every combination of values"
	MsgPlanShort       = "Generate the work items of a build plan"
	MsgConfigShort     = "Show the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat = "ningen version %s\n  commit: %s\n  built:  %s\n"
	MsgNoSources     = "(built-in defaults only)"

	// Error messages
	MsgErrNoCommand   = "no command specified"
	MsgErrUnknownRule = "plan has no rule %q"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot    = "Directory capture patterns are resolved against"
	MsgFlagOutput  = "Output format: text, table, yaml, json, toml or xml"
	MsgFlagColor   = "Colour output: auto, always or never"
	MsgFlagSet     = "Set a value: name=value[,value...] (repeatable)"
	MsgFlagWhere   = "Keep only combinations for which the expression is true"
	MsgFlagRule    = "Only generate the named rule"
	MsgFlagProject = "Directory holding the project configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/foreach-long.txt
	msgForeachLongRaw string
	MsgForeachLong    = strings.TrimSpace(msgForeachLongRaw)

	//go:embed msgs/foreach-example.txt
	msgForeachExampleRaw string
	MsgForeachExample    = strings.TrimRight(msgForeachExampleRaw, "\n")

	//go:embed msgs/expand-long.txt
	msgExpandLongRaw string
	MsgExpandLong    = strings.TrimSpace(msgExpandLongRaw)

	//go:embed msgs/expand-example.txt
	msgExpandExampleRaw string
	MsgExpandExample    = strings.TrimRight(msgExpandExampleRaw, "\n")

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
