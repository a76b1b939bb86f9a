package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/pkg/errors"
	"CertManagerPlatform/pkg/validation"
)

var certsCmd = &cobra.Command{
	Use:     "certificates",
	Aliases: []string{"certs"},
	Short:   "Управление сертификатами",
	Long: `Команды для управления реестром сертификатов: просмотр,
регистрация, изменение, удаление и тестовые уведомления.`,
}

var certsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список сертификатов",
	Long:  `Отображает список сертификатов с возможностью фильтрации по имени и статусу.`,
	RunE:  handleCertsList,
}

var certsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Зарегистрировать сертификат",
	Long:  `Регистрирует новый сертификат в реестре.`,
	RunE:  handleCertsCreate,
}

var certsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Изменить сертификат",
	Long:  `Изменяет указанные поля сертификата. Неуказанные поля не затрагиваются.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleCertsUpdate,
}

var certsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Удалить сертификат",
	Long:  `Удаляет сертификат из реестра. Операция необратима.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleCertsDelete,
}

var certsTestCmd = &cobra.Command{
	Use:   "test-notification [id]",
	Short: "Отправить тестовое уведомление",
	Long:  `Отправляет тестовое уведомление по каналам, привязанным к сертификату.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleCertsTestNotification,
}

func init() {
	certsCmd.AddCommand(certsListCmd)
	certsCmd.AddCommand(certsCreateCmd)
	certsCmd.AddCommand(certsUpdateCmd)
	certsCmd.AddCommand(certsDeleteCmd)
	certsCmd.AddCommand(certsTestCmd)

	// List flags
	certsListCmd.Flags().StringP("name", "n", "", "фильтр по подстроке имени")
	certsListCmd.Flags().String("status", "", "фильтр по статусу (active, expired, revoked)")

	// Create flags
	certsCreateCmd.Flags().StringP("name", "n", "", "имя сертификата")
	certsCreateCmd.Flags().String("owner", "", "email владельца")
	certsCreateCmd.Flags().String("issued", "", "дата выдачи (RFC3339 или YYYY-MM-DD)")
	certsCreateCmd.Flags().String("expires", "", "дата истечения (RFC3339 или YYYY-MM-DD)")
	certsCreateCmd.Flags().String("alert-model", "", "ID модели оповещений")
	certsCreateCmd.Flags().String("note", "", "примечание")
	certsCreateCmd.Flags().StringSlice("channels", nil, "ID каналов уведомлений")
	certsCreateCmd.MarkFlagRequired("name")
	certsCreateCmd.MarkFlagRequired("owner")
	certsCreateCmd.MarkFlagRequired("expires")

	// Update flags
	certsUpdateCmd.Flags().StringP("name", "n", "", "новое имя")
	certsUpdateCmd.Flags().String("owner", "", "новый email владельца")
	certsUpdateCmd.Flags().String("issued", "", "новая дата выдачи")
	certsUpdateCmd.Flags().String("expires", "", "новая дата истечения")
	certsUpdateCmd.Flags().String("status", "", "новый статус (active, expired, revoked)")
	certsUpdateCmd.Flags().String("alert-model", "", "новый ID модели оповещений")
	certsUpdateCmd.Flags().String("note", "", "новое примечание")
	certsUpdateCmd.Flags().StringSlice("channels", nil, "новый набор каналов")

	// Delete flags
	certsDeleteCmd.Flags().BoolP("yes", "y", false, "не запрашивать подтверждение")
}

// parseDate принимает RFC3339 или короткую дату
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.New(errors.ErrValidation, fmt.Sprintf("неверный формат даты: %s", value))
	}
	return t, nil
}

// listCertificates загружает и выводит реестр с учетом фильтров.
// Фильтрация выполняется на клиенте по уже загруженному списку.
func listCertificates(cmd *cobra.Command) error {
	certs, err := certsClient.List(rootCtx)
	if err != nil {
		return err
	}

	nameFilter, _ := cmd.Flags().GetString("name")
	statusFilter, _ := cmd.Flags().GetString("status")
	filtered := client.FilterCertificates(certs, nameFilter, statusFilter)

	table := output.CreateCertificatesTable(filtered, useColors)
	return render(table, filtered)
}

func handleCertsList(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.AllRoles...); err != nil {
		return handleError(err, cmd)
	}

	timer := cliMetrics.NewCommandTimer(rootCtx)
	if err := listCertificates(cmd); err != nil {
		timer.Finish("certs.list", false)
		return handleError(err, cmd)
	}
	timer.Finish("certs.list", true)
	return nil
}

func handleCertsCreate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	name, _ := cmd.Flags().GetString("name")
	owner, _ := cmd.Flags().GetString("owner")
	issuedStr, _ := cmd.Flags().GetString("issued")
	expiresStr, _ := cmd.Flags().GetString("expires")
	alertModel, _ := cmd.Flags().GetString("alert-model")
	note, _ := cmd.Flags().GetString("note")
	channels, _ := cmd.Flags().GetStringSlice("channels")

	v := validation.NewValidator()
	if err := v.ValidateRequired(name, "name"); err != nil {
		return handleError(err, cmd)
	}
	if err := v.ValidateEmail(owner); err != nil {
		return handleError(err, cmd)
	}

	expires, err := parseDate(expiresStr)
	if err != nil {
		return handleError(err, cmd)
	}

	issued := time.Now()
	if issuedStr != "" {
		issued, err = parseDate(issuedStr)
		if err != nil {
			return handleError(err, cmd)
		}
	}

	req := &client.CertificateCreateRequest{
		Name:       name,
		OwnerEmail: owner,
		IssuedAt:   issued,
		ExpiresAt:  expires,
		Note:       note,
		ChannelIDs: channels,
	}
	if alertModel != "" {
		req.AlertModelID = &alertModel
	}

	cert, err := certsClient.Create(rootCtx, req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "сертификат %s зарегистрирован (%s)", cert.Name, cert.ID)

	// После изменения список перечитывается с бэкенда
	return listCertificates(cmd)
}

func handleCertsUpdate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	req := &client.CertificateUpdateRequest{}
	v := validation.NewValidator()

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("owner") {
		owner, _ := cmd.Flags().GetString("owner")
		if err := v.ValidateEmail(owner); err != nil {
			return handleError(err, cmd)
		}
		req.OwnerEmail = &owner
	}
	if cmd.Flags().Changed("issued") {
		issuedStr, _ := cmd.Flags().GetString("issued")
		issued, err := parseDate(issuedStr)
		if err != nil {
			return handleError(err, cmd)
		}
		req.IssuedAt = &issued
	}
	if cmd.Flags().Changed("expires") {
		expiresStr, _ := cmd.Flags().GetString("expires")
		expires, err := parseDate(expiresStr)
		if err != nil {
			return handleError(err, cmd)
		}
		req.ExpiresAt = &expires
	}
	if cmd.Flags().Changed("status") {
		status, _ := cmd.Flags().GetString("status")
		if err := v.ValidateCertificateStatus(status); err != nil {
			return handleError(err, cmd)
		}
		req.Status = &status
	}
	if cmd.Flags().Changed("alert-model") {
		alertModel, _ := cmd.Flags().GetString("alert-model")
		req.AlertModelID = &alertModel
	}
	if cmd.Flags().Changed("note") {
		note, _ := cmd.Flags().GetString("note")
		req.Note = &note
	}
	if cmd.Flags().Changed("channels") {
		channels, _ := cmd.Flags().GetStringSlice("channels")
		req.ChannelIDs = channels
	}

	cert, err := certsClient.Update(rootCtx, args[0], req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "сертификат %s обновлен", cert.ID)
	return listCertificates(cmd)
}

func handleCertsDelete(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	ok, err := confirmAction(cmd, fmt.Sprintf("Удалить сертификат %s?", args[0]))
	if err != nil {
		return handleError(err, cmd)
	}
	if !ok {
		fmt.Println("Отменено")
		return nil
	}

	if err := certsClient.Delete(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "сертификат %s удален", args[0])
	return listCertificates(cmd)
}

func handleCertsTestNotification(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	if err := certsClient.TestNotification(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "тестовое уведомление отправлено")
	return nil
}
