package cmd

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/config"
	climetrics "CertManagerPlatform/internal/metrics"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/internal/store"
	pkgerrors "CertManagerPlatform/pkg/errors"
	"CertManagerPlatform/pkg/logger"
)

var (
	cfg        *config.Config
	appLogger  logger.Logger
	rootCtx    context.Context
	cliMetrics *climetrics.CLIMetrics

	apiClient      *client.APIClient
	sessionManager *session.Manager

	authClient        *client.AuthClient
	certsClient       *client.CertificatesClient
	channelsClient    *client.ChannelsClient
	alertModelsClient *client.AlertModelsClient
	usersClient       *client.UsersClient
	auditLogsClient   *client.AuditLogsClient
	settingsClient    *client.SettingsClient

	outputFormat output.FormatType
	useColors    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "certmanager",
	Short: "CertManager CLI - Управление платформой учета сертификатов",
	Long: `CertManager CLI - инструмент командной строки для администрирования
платформы учета сертификатов и оповещений об их истечении.

Поддерживает управление аутентификацией, сертификатами, моделями
оповещений, каналами уведомлений, учетными записями и журналом аудита.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "файл конфигурации (по умолчанию ~/.certmanager/config.yaml)")
	rootCmd.PersistentFlags().StringP("server", "s", "", "адрес бэкенда")
	rootCmd.PersistentFlags().StringP("output", "o", "", "формат вывода (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "подробный вывод")
	rootCmd.PersistentFlags().Bool("debug", false, "режим отладки")
	rootCmd.PersistentFlags().Bool("no-color", false, "отключить цвета")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))

	viper.SetEnvPrefix("CERTMANAGER")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(certsCmd)
	rootCmd.AddCommand(alertModelsCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// initApp загружает конфигурацию и собирает клиенты
func initApp() error {
	configPath := viper.GetString("config")
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if server := viper.GetString("server"); server != "" {
		cfg.API.BaseURL = server
	}
	if format := viper.GetString("output"); format != "" {
		cfg.Output.Format = format
	}

	level := "warn"
	if viper.GetBool("verbose") {
		level = "info"
	}
	if viper.GetBool("debug") {
		level = "debug"
	}

	appLogger, err = logger.NewLogger("production", level, "certmanager-cli")
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	cliMetrics = climetrics.NewCLIMetrics(appLogger)

	outputFormat, err = output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	useColors = cfg.Output.Colors && output.DetectColors() && !viper.GetBool("no-color")

	tokenStore, err := store.NewTokenStore(cfg)
	if err != nil {
		return err
	}

	apiClient = client.NewAPIClient(cfg, appLogger)
	authClient = client.NewAuthClient(apiClient, appLogger)

	refreshThreshold := time.Duration(cfg.Auth.RefreshThreshold) * time.Second
	sessionManager = session.NewManager(authClient, tokenStore, appLogger, refreshThreshold)

	// Клиент получает токен и протокол обновления у менеджера сессии
	apiClient.SetTokenSource(sessionManager.Token)
	apiClient.SetRefreshFunc(sessionManager.Refresh)

	certsClient = client.NewCertificatesClient(apiClient, appLogger)
	channelsClient = client.NewChannelsClient(apiClient, appLogger)
	alertModelsClient = client.NewAlertModelsClient(apiClient, appLogger)
	usersClient = client.NewUsersClient(apiClient, appLogger)
	auditLogsClient = client.NewAuditLogsClient(apiClient, appLogger)
	settingsClient = client.NewSettingsClient(apiClient, appLogger)

	return nil
}

// requireSession восстанавливает сессию и проверяет доступ
//
// Единственная точка авторизации команд: без сессии или с ролью вне
// требуемого множества команда не выполняется. Отказ в доступе не
// завершает сессию.
func requireSession(ctx context.Context, required ...session.Role) error {
	if err := sessionManager.Bootstrap(ctx); err != nil {
		return pkgerrors.New(pkgerrors.ErrUnauthorized, "требуется вход: выполните certmanager auth login")
	}

	if !sessionManager.Allowed(required...) {
		return pkgerrors.New(pkgerrors.ErrForbidden, "недостаточно прав для этой операции")
	}

	return nil
}

// handleError приводит ошибки команд к единому виду
func handleError(err error, cmd *cobra.Command) error {
	if err == nil {
		return nil
	}

	var appErr *pkgerrors.Error
	if !stderrors.As(err, &appErr) {
		appErr = pkgerrors.New(pkgerrors.ErrInternal, err.Error())
	}

	if appLogger != nil {
		appLogger.Error("команда завершилась с ошибкой",
			logger.String("command", cmd.Name()),
			logger.Error(appErr))
	}

	return fmt.Errorf("%s: %s", cmd.Name(), appErr.GetUserMessage())
}

// confirmAction запрашивает подтверждение разрушительной операции.
// Флаг --yes пропускает запрос.
func confirmAction(cmd *cobra.Command, message string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}

	fmt.Printf("%s [y/N]: ", message)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// render выводит данные в выбранном формате: таблица для людей,
// json/yaml для скриптов
func render(table *output.PrettyTable, raw interface{}) error {
	if outputFormat == output.FormatTable {
		fmt.Println(table.String())
		return nil
	}

	formatter := output.GetFormatter(outputFormat, true, false)
	result, err := formatter.Format(raw)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
