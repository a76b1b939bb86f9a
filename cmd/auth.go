package cmd

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/pkg/errors"
	"CertManagerPlatform/pkg/validation"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление аутентификацией",
	Long: `Команды для управления аутентификацией: вход, выход,
проверка статуса сессии и смена пароля.`,
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Войти в систему",
	Long: `Выполняет вход по email и паролю. Сохраняет токены сессии
для последующих команд.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogin(cmd, args)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long:  `Завершает сессию и удаляет сохраненные токены.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogout(cmd, args)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить статус сессии",
	Long:  `Показывает текущее состояние сессии и данные пользователя.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleAuthStatus(cmd, args)
	},
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Сменить пароль",
	Long:  `Меняет пароль текущего пользователя. Требуется текущий пароль.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleChangePassword(cmd, args)
	},
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(changePasswordCmd)

	loginCmd.Flags().StringP("password", "p", "", "пароль (небезопасно, лучше ввод с терминала)")
}

// promptPassword читает пароль с терминала без эха
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	return string(data), nil
}

// promptLine читает строку со стандартного ввода
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func handleLogin(cmd *cobra.Command, args []string) error {
	timer := cliMetrics.NewCommandTimer(rootCtx)

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return handleError(err, cmd)
		}
	}

	v := validation.NewValidator()
	if err := v.ValidateEmail(email); err != nil {
		timer.Finish("auth.login", false)
		return handleError(err, cmd)
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		var err error
		password, err = promptPassword("Пароль: ")
		if err != nil {
			timer.Finish("auth.login", false)
			return handleError(err, cmd)
		}
	}

	if err := sessionManager.Login(rootCtx, email, password); err != nil {
		timer.Finish("auth.login", false)
		return handleError(err, cmd)
	}

	timer.Finish("auth.login", true)
	snap := sessionManager.Current()
	output.PrintSuccess(useColors, "вход выполнен: %s (%s)", snap.Identity.Email, snap.Identity.Role)
	return nil
}

func handleLogout(cmd *cobra.Command, args []string) error {
	// Выход выполняется локально и безусловно; недоступный бэкенд
	// не мешает завершить сессию
	sessionManager.Logout(rootCtx)
	output.PrintSuccess(useColors, "выход выполнен")
	return nil
}

func handleAuthStatus(cmd *cobra.Command, args []string) error {
	if err := sessionManager.Bootstrap(rootCtx); err != nil {
		fmt.Println("Статус: не аутентифицирован")
		return nil
	}

	snap := sessionManager.Current()
	if snap.State != session.Authenticated || snap.Identity == nil {
		fmt.Println("Статус: не аутентифицирован")
		return nil
	}

	table := output.NewPrettyTable([]string{"Field", "Value"}, useColors)
	table.AddRow("Статус", snap.State.String())
	table.AddRow("Email", snap.Identity.Email)
	table.AddRow("Роль", string(snap.Identity.Role))
	fmt.Println(table.String())
	return nil
}

func handleChangePassword(cmd *cobra.Command, args []string) error {
	if err := requireSession(rootCtx, session.AllRoles...); err != nil {
		return handleError(err, cmd)
	}

	current, err := promptPassword("Текущий пароль: ")
	if err != nil {
		return handleError(err, cmd)
	}

	newPassword, err := promptPassword("Новый пароль: ")
	if err != nil {
		return handleError(err, cmd)
	}

	v := validation.NewValidator()
	if err := v.ValidatePassword(newPassword); err != nil {
		return handleError(err, cmd)
	}

	confirmPassword, err := promptPassword("Повторите новый пароль: ")
	if err != nil {
		return handleError(err, cmd)
	}
	if newPassword != confirmPassword {
		return handleError(errors.New(errors.ErrValidation, "пароли не совпадают"), cmd)
	}

	if err := authClient.ChangePassword(rootCtx, current, newPassword); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "пароль изменен")
	return nil
}
