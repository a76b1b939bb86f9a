package cmd

import (
	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/pkg/validation"
)

var auditCmd = &cobra.Command{
	Use:     "audit-logs",
	Aliases: []string{"audit"},
	Short:   "Журнал аудита",
	Long: `Команды для просмотра журнала аудита. Фильтрация выполняется
на бэкенде.`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать записи журнала",
	Long:  `Отображает записи журнала аудита с учетом фильтров.`,
	RunE:  handleAuditList,
}

func init() {
	auditCmd.AddCommand(auditListCmd)

	auditListCmd.Flags().IntP("limit", "l", 50, "максимум записей")
	auditListCmd.Flags().String("actor", "", "фильтр по email исполнителя")
	auditListCmd.Flags().String("entity", "", "фильтр по типу сущности")
	auditListCmd.Flags().String("entity-id", "", "фильтр по ID сущности")
	auditListCmd.Flags().String("action", "", "фильтр по действию")
	auditListCmd.Flags().String("from", "", "начало периода (RFC3339)")
	auditListCmd.Flags().String("to", "", "конец периода (RFC3339)")
	auditListCmd.Flags().StringP("query", "q", "", "полнотекстовый поиск")
}

func handleAuditList(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.AllRoles...); err != nil {
		return handleError(err, cmd)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	actor, _ := cmd.Flags().GetString("actor")
	entity, _ := cmd.Flags().GetString("entity")
	entityID, _ := cmd.Flags().GetString("entity-id")
	action, _ := cmd.Flags().GetString("action")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	query, _ := cmd.Flags().GetString("query")

	if from != "" || to != "" {
		v := validation.NewValidator()
		if err := v.ValidateDateRange(from, to); err != nil {
			return handleError(err, cmd)
		}
	}

	entries, err := auditLogsClient.List(rootCtx, &client.AuditLogFilter{
		Limit:    limit,
		Actor:    actor,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		From:     from,
		To:       to,
		Query:    query,
	})
	if err != nil {
		return handleError(err, cmd)
	}

	table := output.CreateAuditLogsTable(entries, useColors)
	return render(table, entries)
}
