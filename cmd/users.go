package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/pkg/validation"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Управление учетными записями",
	Long: `Команды для управления учетными записями панели: создание,
изменение роли, отключение и сброс пароля. Доступно только
администраторам.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список учетных записей",
	Long:  `Отображает список учетных записей с возможностью фильтрации.`,
	RunE:  handleUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать учетную запись",
	Long:  `Создает новую учетную запись с указанной ролью.`,
	RunE:  handleUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Изменить учетную запись",
	Long:  `Изменяет имя, роль или статус учетной записи.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleUsersUpdate,
}

var usersDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Отключить учетную запись",
	Long:  `Отключает учетную запись. Запись остается в списке и может быть включена снова.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleUsersDisable,
}

var usersResetPasswordCmd = &cobra.Command{
	Use:   "reset-password [id]",
	Short: "Сбросить пароль",
	Long:  `Запускает процедуру сброса пароля для учетной записи.`,
	Args:  cobra.ExactArgs(1),
	RunE:  handleUsersResetPassword,
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDisableCmd)
	usersCmd.AddCommand(usersResetPasswordCmd)

	// List flags
	usersListCmd.Flags().StringP("query", "q", "", "фильтр по подстроке email или имени")
	usersListCmd.Flags().StringP("role", "r", "", "фильтр по роли (admin, editor, viewer)")
	usersListCmd.Flags().String("status", "", "фильтр по статусу (active, inactive, disabled)")

	// Create flags
	usersCreateCmd.Flags().StringP("email", "e", "", "email адрес")
	usersCreateCmd.Flags().StringP("name", "n", "", "отображаемое имя")
	usersCreateCmd.Flags().StringP("role", "r", "viewer", "роль (admin, editor, viewer)")
	usersCreateCmd.Flags().StringP("password", "p", "", "начальный пароль (если не указан, запрашивается)")
	usersCreateCmd.MarkFlagRequired("email")
	usersCreateCmd.MarkFlagRequired("name")

	// Update flags
	usersUpdateCmd.Flags().StringP("name", "n", "", "новое отображаемое имя")
	usersUpdateCmd.Flags().StringP("role", "r", "", "новая роль")
	usersUpdateCmd.Flags().String("status", "", "новый статус (active, inactive, disabled)")

	// Disable and reset flags
	usersDisableCmd.Flags().BoolP("yes", "y", false, "не запрашивать подтверждение")
	usersResetPasswordCmd.Flags().BoolP("yes", "y", false, "не запрашивать подтверждение")
}

func listUsers(cmd *cobra.Command) error {
	users, err := usersClient.List(rootCtx)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	role, _ := cmd.Flags().GetString("role")
	status, _ := cmd.Flags().GetString("status")

	filtered := client.FilterUsers(users, query, role, status)
	table := output.CreateUsersTable(filtered, useColors)
	return render(table, filtered)
}

func handleUsersList(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin); err != nil {
		return handleError(err, cmd)
	}

	if err := listUsers(cmd); err != nil {
		return handleError(err, cmd)
	}
	return nil
}

func handleUsersCreate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin); err != nil {
		return handleError(err, cmd)
	}

	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	password, _ := cmd.Flags().GetString("password")

	v := validation.NewValidator()
	if err := v.ValidateEmail(email); err != nil {
		return handleError(err, cmd)
	}
	if err := v.ValidateRequired(name, "name"); err != nil {
		return handleError(err, cmd)
	}
	if err := v.ValidateRole(role); err != nil {
		return handleError(err, cmd)
	}

	if password == "" {
		var err error
		password, err = promptPassword("Начальный пароль: ")
		if err != nil {
			return handleError(err, cmd)
		}
	}
	if err := v.ValidatePassword(password); err != nil {
		return handleError(err, cmd)
	}

	user, err := usersClient.Create(rootCtx, &client.UserCreateRequest{
		Email:       email,
		DisplayName: name,
		Role:        role,
		Password:    password,
	})
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "учетная запись %s создана (%s)", user.Email, user.ID)
	return listUsers(cmd)
}

func handleUsersUpdate(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin); err != nil {
		return handleError(err, cmd)
	}

	req := &client.UserUpdateRequest{}
	v := validation.NewValidator()

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.DisplayName = &name
	}
	if cmd.Flags().Changed("role") {
		role, _ := cmd.Flags().GetString("role")
		if err := v.ValidateRole(role); err != nil {
			return handleError(err, cmd)
		}
		req.Role = &role
	}
	if cmd.Flags().Changed("status") {
		status, _ := cmd.Flags().GetString("status")
		if err := v.ValidateUserStatus(status); err != nil {
			return handleError(err, cmd)
		}
		req.Status = &status
	}

	user, err := usersClient.Update(rootCtx, args[0], req)
	if err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "учетная запись %s обновлена", user.ID)
	return listUsers(cmd)
}

func handleUsersDisable(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin); err != nil {
		return handleError(err, cmd)
	}

	ok, err := confirmAction(cmd, fmt.Sprintf("Отключить учетную запись %s?", args[0]))
	if err != nil {
		return handleError(err, cmd)
	}
	if !ok {
		fmt.Println("Отменено")
		return nil
	}

	if err := usersClient.Disable(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "учетная запись %s отключена", args[0])
	return listUsers(cmd)
}

func handleUsersResetPassword(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.RoleAdmin); err != nil {
		return handleError(err, cmd)
	}

	ok, err := confirmAction(cmd, fmt.Sprintf("Сбросить пароль учетной записи %s?", args[0]))
	if err != nil {
		return handleError(err, cmd)
	}
	if !ok {
		fmt.Println("Отменено")
		return nil
	}

	if err := usersClient.ResetPassword(rootCtx, args[0]); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "процедура сброса пароля запущена")
	return listUsers(cmd)
}
