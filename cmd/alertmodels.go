package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/pkg/validation"
)

var alertModelsCmd = &cobra.Command{
	Use:   "alert-models",
	Short: "Управление моделями оповещений",
	Long: `Команды для управления моделями оповещений: расписаниями
уведомлений об истечении сертификатов.`,
}

var alertModelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список моделей оповещений",
	Long:  `Отображает список моделей оповещений с возможностью фильтрации по имени.`,
	RunE:  handleAlertModelsList,
}

var alertModelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать модель оповещений",
	Long:  `Создает новую модель оповещений с расписанием и шаблоном сообщения.`,
	RunE:  handleAlertModelsCreate,
}

var alertModelsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Изменить модель оповещений",
	Long:  `Изменяет указанные поля модели оповещений.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleAlertModelsUpdate,
}

var alertModelsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Удалить модель оповещений",
	Long:  `Удаляет модель оповещений. Сертификаты, использующие модель, остаются без нее.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleAlertModelsDelete,
}

func init() {
	alertModelsCmd.AddCommand(alertModelsListCmd)
	alertModelsCmd.AddCommand(alertModelsCreateCmd)
	alertModelsCmd.AddCommand(alertModelsUpdateCmd)
	alertModelsCmd.AddCommand(alertModelsDeleteCmd)

	// List flags
	alertModelsListCmd.Flags().StringP("name", "n", "", "фильтр по подстроке имени")

	// Create flags
	alertModelsCreateCmd.Flags().StringP("name", "n", "", "имя модели")
	alertModelsCreateCmd.Flags().Int("days-before", 30, "за сколько дней до истечения начинать уведомления")
	alertModelsCreateCmd.Flags().Int("days-after", 0, "сколько дней после истечения продолжать уведомления")
	alertModelsCreateCmd.Flags().Int("repeat-every", 0, "интервал повторных уведомлений в днях")
	alertModelsCreateCmd.Flags().String("subject", "", "тема уведомления")
	alertModelsCreateCmd.Flags().String("body", "", "текст уведомления")
	alertModelsCreateCmd.MarkFlagRequired("name")
	alertModelsCreateCmd.MarkFlagRequired("subject")

	// Update flags
	alertModelsUpdateCmd.Flags().StringP("name", "n", "", "новое имя")
	alertModelsUpdateCmd.Flags().Int("days-before", 0, "новое значение дней до истечения")
	alertModelsUpdateCmd.Flags().Int("days-after", 0, "новое значение дней после истечения")
	alertModelsUpdateCmd.Flags().Int("repeat-every", 0, "новый интервал повторов в днях")
	alertModelsUpdateCmd.Flags().String("subject", "", "новая тема")
	alertModelsUpdateCmd.Flags().String("body", "", "новый текст")

	// Delete flags
	alertModelsDeleteCmd.Flags().BoolP("yes", "y", false, "не запрашивать подтверждение")
}

func listAlertModels(cmd *cobra.Command) error {
	models, err := alertModelsClient.List(rootCtx)
	if err != nil {
		return err
	}

	nameFilter, _ := cmd.Flags().GetString("name")
	filtered := client.FilterAlertModels(models, nameFilter)

	table := output.CreateAlertModelsTable(filtered, useColors)
	return render(table, filtered)
}

func handleAlertModelsList(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.AllRoles...); err != nil {
		return handleError(err, cmd)
	}

	if err := listAlertModels(cmd); err != nil {
		return handleError(err, cmd)
	}
	return nil
}

func handleAlertModelsCreate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	name, _ := cmd.Flags().GetString("name")
	daysBefore, _ := cmd.Flags().GetInt("days-before")
	daysAfter, _ := cmd.Flags().GetInt("days-after")
	repeatEvery, _ := cmd.Flags().GetInt("repeat-every")
	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("body")

	v := validation.NewValidator()
	if err := v.ValidateRequired(name, "name"); err != nil {
		return handleError(err, cmd)
	}
	if err := v.ValidateDayOffset(daysBefore, "days-before"); err != nil {
		return handleError(err, cmd)
	}

	req := &client.AlertModelCreateRequest{
		Name:       name,
		DaysBefore: daysBefore,
		Subject:    subject,
		Body:       body,
	}
	if cmd.Flags().Changed("days-after") {
		if err := v.ValidateDayOffset(daysAfter, "days-after"); err != nil {
			return handleError(err, cmd)
		}
		req.DaysAfter = &daysAfter
	}
	if cmd.Flags().Changed("repeat-every") {
		if err := v.ValidateRepeatInterval(repeatEvery); err != nil {
			return handleError(err, cmd)
		}
		req.RepeatEvery = &repeatEvery
	}

	model, err := alertModelsClient.Create(rootCtx, req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "модель %s создана (%s)", model.Name, model.ID)
	return listAlertModels(cmd)
}

func handleAlertModelsUpdate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	req := &client.AlertModelUpdateRequest{}
	v := validation.NewValidator()

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("days-before") {
		daysBefore, _ := cmd.Flags().GetInt("days-before")
		if err := v.ValidateDayOffset(daysBefore, "days-before"); err != nil {
			return handleError(err, cmd)
		}
		req.DaysBefore = &daysBefore
	}
	if cmd.Flags().Changed("days-after") {
		daysAfter, _ := cmd.Flags().GetInt("days-after")
		if err := v.ValidateDayOffset(daysAfter, "days-after"); err != nil {
			return handleError(err, cmd)
		}
		req.DaysAfter = &daysAfter
	}
	if cmd.Flags().Changed("repeat-every") {
		repeatEvery, _ := cmd.Flags().GetInt("repeat-every")
		if err := v.ValidateRepeatInterval(repeatEvery); err != nil {
			return handleError(err, cmd)
		}
		req.RepeatEvery = &repeatEvery
	}
	if cmd.Flags().Changed("subject") {
		subject, _ := cmd.Flags().GetString("subject")
		req.Subject = &subject
	}
	if cmd.Flags().Changed("body") {
		body, _ := cmd.Flags().GetString("body")
		req.Body = &body
	}

	model, err := alertModelsClient.Update(rootCtx, args[0], req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "модель %s обновлена", model.ID)
	return listAlertModels(cmd)
}

func handleAlertModelsDelete(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	ok, err := confirmAction(cmd, fmt.Sprintf("Удалить модель оповещений %s?", args[0]))
	if err != nil {
		return handleError(err, cmd)
	}
	if !ok {
		fmt.Println("Отменено")
		return nil
	}

	if err := alertModelsClient.Delete(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "модель %s удалена", args[0])
	return listAlertModels(cmd)
}
