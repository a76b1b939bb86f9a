package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config представляет конфигурацию CLI
type Config struct {
	// API настройки
	API struct {
		BaseURL string `yaml:"base_url" json:"base_url"`
		Timeout int    `yaml:"timeout" json:"timeout"`
	} `yaml:"api" json:"api"`

	// Аутентификация
	Auth struct {
		// За сколько секунд до истечения токена пытаться обновить его заранее
		RefreshThreshold int `yaml:"refresh_threshold" json:"refresh_threshold"`
	} `yaml:"auth" json:"auth"`

	// Хранилище токенов
	Store struct {
		Backend   string `yaml:"backend" json:"backend"` // file, redis
		RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	} `yaml:"store" json:"store"`

	// Настройки вывода
	Output struct {
		Format string `yaml:"format" json:"format"` // table, json, yaml
		Colors bool   `yaml:"colors" json:"colors"`
	} `yaml:"output" json:"output"`

	// Путь к файлу конфигурации
	Path string `yaml:"-" json:"-"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	config := &Config{}

	// API настройки по умолчанию: локальный бэкенд для разработки
	config.API.BaseURL = "http://localhost:3001"
	config.API.Timeout = 30

	// Настройки аутентификации по умолчанию
	config.Auth.RefreshThreshold = 300 // 5 минут до истечения

	// Хранилище токенов по умолчанию
	config.Store.Backend = "file"
	config.Store.RedisAddr = "localhost:6379"

	// Настройки вывода по умолчанию
	config.Output.Format = "table"
	config.Output.Colors = true

	return config
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	config.Path = path

	// Если файл не существует, возвращаем конфигурацию по умолчанию
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	// Читаем файл
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	// Парсим YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}

	// Переменная окружения переопределяет адрес бэкенда
	if env := os.Getenv("CERTMANAGER_SERVER"); env != "" {
		config.API.BaseURL = env
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (c *Config) Save() error {
	if c.Path == "" {
		return fmt.Errorf("путь к файлу конфигурации не указан")
	}

	// Создаем директорию, если она не существует
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}

	// Сериализуем в YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("ошибка сериализации конфигурации: %w", err)
	}

	// Записываем в файл
	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла конфигурации: %w", err)
	}

	return nil
}

// HomeDir возвращает рабочую директорию CLI (~/.certmanager)
//
// Переменная CERTMANAGER_HOME переопределяет домашнюю директорию,
// что используется в тестах и на CI.
func HomeDir() (string, error) {
	home := os.Getenv("CERTMANAGER_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ошибка получения домашней директории: %w", err)
		}
	}

	return filepath.Join(home, ".certmanager"), nil
}

// GetConfigPath возвращает путь к файлу конфигурации
func GetConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.yaml"), nil
}

// InitConfig инициализирует конфигурацию в домашней директории пользователя
func InitConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Path = path

	// Сохраняем конфигурацию по умолчанию
	if err := config.Save(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() error {
	// Проверяем URL
	if c.API.BaseURL == "" {
		return fmt.Errorf("API BaseURL не может быть пустым")
	}

	// Проверяем таймаут
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API таймаут должен быть положительным числом")
	}

	// Проверяем бэкенд хранилища токенов
	validBackends := map[string]bool{
		"file":  true,
		"redis": true,
	}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("неверный бэкенд хранилища токенов: %s", c.Store.Backend)
	}
	if c.Store.Backend == "redis" && c.Store.RedisAddr == "" {
		return fmt.Errorf("адрес Redis не может быть пустым при бэкенде redis")
	}

	// Проверяем формат вывода
	validFormats := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("неверный формат вывода: %s", c.Output.Format)
	}

	return nil
}

// SetAPISettings устанавливает настройки API
func (c *Config) SetAPISettings(baseURL string, timeout int) {
	c.API.BaseURL = baseURL
	c.API.Timeout = timeout
}

// SetOutputSettings устанавливает настройки вывода
func (c *Config) SetOutputSettings(format string, colors bool) {
	c.Output.Format = format
	c.Output.Colors = colors
}
