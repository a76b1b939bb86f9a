package cmd

import (
	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Системные настройки",
	Long:  `Команды для просмотра системных настроек платформы.`,
}

var settingsShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"view"},
	Short:   "Показать настройки",
	Long:    `Отображает текущие системные настройки.`,
	RunE:    handleSettingsShow,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
}

func handleSettingsShow(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.AllRoles...); err != nil {
		return handleError(err, cmd)
	}

	settings, err := settingsClient.Get(rootCtx)
	if err != nil {
		return handleError(err, cmd)
	}

	table := output.CreateSettingsTable(settings, useColors)
	return render(table, settings)
}
