package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"CertManagerPlatform/internal/config"
	"CertManagerPlatform/internal/output"
	"CertManagerPlatform/pkg/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Управление конфигурацией CLI",
	Long: `Команды для управления локальной конфигурацией CLI:
инициализация, просмотр и изменение настроек.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Инициализировать конфигурацию",
	Long:  `Создает файл конфигурации с настройками по умолчанию.`,
	RunE:  handleConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"view"},
	Short:   "Просмотреть конфигурацию",
	Long:    `Показывает текущую конфигурацию CLI.`,
	RunE:    handleConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Изменить настройку",
	Long: `Изменяет настройку и сохраняет конфигурацию.

Поддерживаемые ключи:
  api.base_url       адрес бэкенда
  api.timeout        таймаут запросов в секундах
  output.format      формат вывода (table, json, yaml)
  output.colors      использование цветов (true, false)
  store.backend      хранилище токенов (file, redis)
  store.redis_addr   адрес Redis`,
	Args: cobra.ExactArgs(2),
	RunE: handleConfigSet,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "перезаписать существующий файл")
}

func handleConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := config.GetConfigPath()
	if err != nil {
		return handleError(err, cmd)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return handleError(errors.New(errors.ErrConflict,
			fmt.Sprintf("файл %s уже существует, используйте --force", path)), cmd)
	}

	if _, err := config.InitConfig(); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "конфигурация создана: %s", path)
	return nil
}

func handleConfigShow(cmd *cobra.Command, args []string) error {
	formatter := output.NewYAMLFormatter()
	result, err := formatter.Format(cfg)
	if err != nil {
		return handleError(err, cmd)
	}

	fmt.Println(result)
	return nil
}

func handleConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return handleError(errors.New(errors.ErrValidation, "таймаут должен быть числом"), cmd)
		}
		cfg.API.Timeout = timeout
	case "output.format":
		if _, err := output.ParseFormat(value); err != nil {
			return handleError(errors.New(errors.ErrValidation, err.Error()), cmd)
		}
		cfg.Output.Format = value
	case "output.colors":
		colors, err := strconv.ParseBool(value)
		if err != nil {
			return handleError(errors.New(errors.ErrValidation, "значение должно быть true или false"), cmd)
		}
		cfg.Output.Colors = colors
	case "store.backend":
		cfg.Store.Backend = value
	case "store.redis_addr":
		cfg.Store.RedisAddr = value
	default:
		return handleError(errors.New(errors.ErrValidation, fmt.Sprintf("неизвестный ключ: %s", key)), cmd)
	}

	if err := cfg.Validate(); err != nil {
		return handleError(errors.New(errors.ErrValidation, err.Error()), cmd)
	}

	if cfg.Path == "" {
		path, err := config.GetConfigPath()
		if err != nil {
			return handleError(err, cmd)
		}
		cfg.Path = path
	}

	if err := cfg.Save(); err != nil {
		return handleError(err, cmd)
	}

	output.PrintSuccess(useColors, "%s = %s", key, value)
	return nil
}
