package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Генерировать скрипт автодополнения",
	Long: `Генерирует скрипт автодополнения для указанной оболочки.
Чтобы включить автодополнение:

Bash:
  $ source <(certmanager completion bash)

  # Для постоянного использования:
  $ certmanager completion bash > /etc/bash_completion.d/certmanager

Zsh:
  $ certmanager completion zsh > "${fpath[1]}/_certmanager"

Fish:
  $ certmanager completion fish | source

PowerShell:
  PS> certmanager completion powershell | Out-String | Invoke-Expression`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleCompletion(cmd, args)
	},
}

func handleCompletion(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		return rootCmd.GenZshCompletion(os.Stdout)
	case "fish":
		return rootCmd.GenFishCompletion(os.Stdout, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("неподдерживаемая оболочка: %s", args[0])
	}
}
