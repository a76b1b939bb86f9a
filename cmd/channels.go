package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/pkg/validation"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Управление каналами уведомлений",
	Long: `Команды для управления каналами уведомлений: smtp, telegram,
slack и googlechat. Значения секретов каналов задаются при создании
или изменении и никогда не возвращаются обратно.`,
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список каналов",
	Long:  `Отображает список каналов уведомлений. Секреты показываются только как признак установленности.`,
	RunE:  handleChannelsList,
}

var channelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать канал",
	Long:  `Создает новый канал уведомлений с параметрами и секретами.`,
	RunE:  handleChannelsCreate,
}

var channelsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Изменить канал",
	Long: `Изменяет канал уведомлений. Переданные секреты перезаписывают
существующие; остальные секреты не затрагиваются.`,
	Args: cobra.ExactArgs(1),
	RunE: handleChannelsUpdate,
}

var channelsDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Отключить канал",
	Long:  `Отключает канал уведомлений. Канал остается в списке и может быть включен снова.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleChannelsDisable,
}

var channelsTestCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Проверить канал",
	Long:  `Отправляет тестовое сообщение через указанный канал.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleChannelsTest,
}

func init() {
	channelsCmd.AddCommand(channelsListCmd)
	channelsCmd.AddCommand(channelsCreateCmd)
	channelsCmd.AddCommand(channelsUpdateCmd)
	channelsCmd.AddCommand(channelsDisableCmd)
	channelsCmd.AddCommand(channelsTestCmd)

	// List flags
	channelsListCmd.Flags().StringP("name", "n", "", "фильтр по подстроке имени")
	channelsListCmd.Flags().StringP("type", "t", "", "фильтр по типу (smtp, telegram, slack, googlechat)")
	channelsListCmd.Flags().String("enabled", "", "фильтр по состоянию (true, false)")

	// Create flags
	channelsCreateCmd.Flags().StringP("name", "n", "", "имя канала")
	channelsCreateCmd.Flags().StringP("type", "t", "", "тип канала (smtp, telegram, slack, googlechat)")
	channelsCreateCmd.Flags().Bool("disabled", false, "создать канал отключенным")
	channelsCreateCmd.Flags().StringToString("param", nil, "параметр канала (key=value)")
	channelsCreateCmd.Flags().StringToString("secret", nil, "секрет канала (key=value)")
	channelsCreateCmd.MarkFlagRequired("name")
	channelsCreateCmd.MarkFlagRequired("type")

	// Update flags
	channelsUpdateCmd.Flags().StringP("name", "n", "", "новое имя")
	channelsUpdateCmd.Flags().String("enabled", "", "новое состояние (true, false)")
	channelsUpdateCmd.Flags().StringToString("param", nil, "новый параметр (key=value)")
	channelsUpdateCmd.Flags().StringToString("secret", nil, "новое значение секрета (key=value)")

	// Disable flags
	channelsDisableCmd.Flags().BoolP("yes", "y", false, "не запрашивать подтверждение")
}

// parseEnabledFlag разбирает трехзначный фильтр состояния
func parseEnabledFlag(value string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "true":
		enabled := true
		return &enabled, nil
	case "false":
		enabled := false
		return &enabled, nil
	default:
		return nil, fmt.Errorf("значение enabled должно быть true или false")
	}
}

func listChannels(cmd *cobra.Command) error {
	channels, err := channelsClient.List(rootCtx)
	if err != nil {
		return err
	}

	nameFilter, _ := cmd.Flags().GetString("name")
	typeFilter, _ := cmd.Flags().GetString("type")
	enabledStr, _ := cmd.Flags().GetString("enabled")

	enabledFilter, err := parseEnabledFlag(enabledStr)
	if err != nil {
		return err
	}

	filtered := client.FilterChannels(channels, nameFilter, typeFilter, enabledFilter)
	table := output.CreateChannelsTable(filtered, useColors)
	return render(table, filtered)
}

func handleChannelsList(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.AllRoles...); err != nil {
		return handleError(err, cmd)
	}

	if err := listChannels(cmd); err != nil {
		return handleError(err, cmd)
	}
	return nil
}

func handleChannelsCreate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	name, _ := cmd.Flags().GetString("name")
	channelType, _ := cmd.Flags().GetString("type")
	disabled, _ := cmd.Flags().GetBool("disabled")
	params, _ := cmd.Flags().GetStringToString("param")
	secrets, _ := cmd.Flags().GetStringToString("secret")

	v := validation.NewValidator()
	if err := v.ValidateRequired(name, "name"); err != nil {
		return handleError(err, cmd)
	}
	if err := v.ValidateChannelType(channelType); err != nil {
		return handleError(err, cmd)
	}

	req := &client.ChannelCreateRequest{
		Name:    name,
		Type:    channelType,
		Enabled: !disabled,
		Params:  params,
		Secrets: secrets,
	}

	ch, err := channelsClient.Create(rootCtx, req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "канал %s создан (%s)", ch.Name, ch.ID)
	return listChannels(cmd)
}

func handleChannelsUpdate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	req := &client.ChannelUpdateRequest{}

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("enabled") {
		enabledStr, _ := cmd.Flags().GetString("enabled")
		enabled, err := parseEnabledFlag(enabledStr)
		if err != nil {
			return handleError(err, cmd)
		}
		req.Enabled = enabled
	}
	if cmd.Flags().Changed("param") {
		params, _ := cmd.Flags().GetStringToString("param")
		req.Params = params
	}
	if cmd.Flags().Changed("secret") {
		secrets, _ := cmd.Flags().GetStringToString("secret")
		req.Secrets = secrets
	}

	ch, err := channelsClient.Update(rootCtx, args[0], req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "канал %s обновлен", ch.ID)
	return listChannels(cmd)
}

func handleChannelsDisable(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	ok, err := confirmAction(cmd, fmt.Sprintf("Отключить канал %s?", args[0]))
	if err != nil {
		return handleError(err, cmd)
	}
	if !ok {
		fmt.Println("Отменено")
		return nil
	}

	if err := channelsClient.Disable(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "канал %s отключен", args[0])
	return listChannels(cmd)
}

func handleChannelsTest(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin, session.RoleEditor); err != nil {
		return handleError(err, cmd)
	}

	if err := channelsClient.Test(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "тестовое сообщение отправлено")
	return nil
}
