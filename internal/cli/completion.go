package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spore/pkg/pipeline"
	"github.com/matzehuels/spore/pkg/store"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for spore.

Besides commands and flags, the scripts complete the values of the layout
options (--algorithm, --cost, --root, --mode, --edge-policy), output
formats for --format (one comma-separated entry at a time), run sources for
"runs list --source", and .spore/.json diagram files.

To load completions:

Bash:
  $ source <(spore completion bash)

  # To load completions for each session, execute once:
  $ spore completion bash > /etc/bash_completion.d/spore

Zsh:
  $ spore completion zsh > "${fpath[1]}/_spore"

Fish:
  $ spore completion fish > ~/.config/fish/completions/spore.fish

PowerShell:
  PS> spore completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// flagValues lists the completions offered for enum-valued flags. Flags
// marked as lists take comma-separated values.
var flagValues = map[string]struct {
	values []string
	list   bool
}{
	"algorithm":   {values: pipeline.Names(pipeline.ValidAlgorithms)},
	"cost":        {values: pipeline.Names(pipeline.ValidCostFunctions)},
	"root":        {values: pipeline.Names(pipeline.ValidRootSelections)},
	"mode":        {values: pipeline.Names(pipeline.ValidModes)},
	"edge-policy": {values: pipeline.Names(pipeline.ValidEdgePolicies)},
	"format":      {values: pipeline.Names(pipeline.ValidFormats), list: true},
	"source":      {values: []string{store.SourceCLI, store.SourceAPI}},
}

// diagramCommands take a diagram file as their first argument.
var diagramCommands = map[string]bool{
	"layout":  true,
	"compact": true,
	"check":   true,
	"render":  true,
	"inspect": true,
}

// registerCompletions attaches value completions to cmd and its subcommands.
func registerCompletions(cmd *cobra.Command) {
	for name, fv := range flagValues {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		values, list := fv.values, fv.list
		_ = cmd.RegisterFlagCompletionFunc(name, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if list {
				return completeList(values, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
			}
			return values, cobra.ShellCompDirectiveNoFileComp
		})
	}
	if diagramCommands[cmd.Name()] && cmd.ValidArgsFunction == nil {
		cmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return []string{"spore", "json"}, cobra.ShellCompDirectiveFilterFileExt
		}
	}
	for _, sub := range cmd.Commands() {
		registerCompletions(sub)
	}
}

// completeList completes the last entry of a comma-separated list, skipping
// values already given.
func completeList(values []string, toComplete string) []string {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	seen := make(map[string]bool)
	for _, v := range strings.Split(prefix, ",") {
		seen[v] = true
	}
	var out []string
	for _, v := range values {
		if !seen[v] && strings.HasPrefix(v, last) {
			out = append(out, prefix+v)
		}
	}
	return out
}
