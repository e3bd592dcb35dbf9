package cli

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/pipeline"
	"github.com/matzehuels/ringchart/pkg/ring/segment"
)

// datasetExtensions are the file types pkg/io reads.
var datasetExtensions = []string{"csv", "json", "yaml", "yml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ringchart.

To load completions:

Bash:
  $ source <(ringchart completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ringchart completion bash > /etc/bash_completion.d/ringchart
  # macOS:
  $ ringchart completion bash > $(brew --prefix)/etc/bash_completion.d/ringchart

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ringchart completion zsh > "${fpath[1]}/_ringchart"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ringchart completion fish | source

  # To load completions for each session, execute once:
  $ ringchart completion fish > ~/.config/fish/completions/ringchart.fish

PowerShell:
  PS> ringchart completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ringchart completion powershell > ringchart.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeDataset offers dataset files for the first argument only.
func completeDataset(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return datasetExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeConvert offers dataset files for both arguments.
func completeConvert(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return datasetExtensions, cobra.ShellCompDirectiveFilterFileExt
}

func completeValues(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes the last item of a comma-separated format list
// and skips formats already named before it.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	used := map[string]bool{}
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		for _, f := range strings.Split(prefix, ",") {
			used[strings.TrimSpace(f)] = true
		}
	}
	var out []string
	for _, f := range slices.Sorted(maps.Keys(pipeline.ValidFormats)) {
		if !used[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerChartCompletions wires value completion for the shared chart flags.
func registerChartCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeDataset
	_ = cmd.RegisterFlagCompletionFunc("weighting", completeValues(dataset.WeightingCount, dataset.WeightingEqual))
	_ = cmd.RegisterFlagCompletionFunc("barrier-order", completeValues(segment.OrderByName, segment.OrderByWeight))
	_ = cmd.RegisterFlagCompletionFunc("measurer", completeValues("heuristic", "face"))
	_ = cmd.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
