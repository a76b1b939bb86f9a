package metrics

import (
	"context"
	"time"

	"CertManagerPlatform/pkg/logger"
	"CertManagerPlatform/pkg/metrics"
)

// CLIMetrics содержит метрики для операций CLI
type CLIMetrics struct {
	metrics.Metrics
	logger logger.Logger
}

// NewCLIMetrics создает новые метрики для CLI
func NewCLIMetrics(log logger.Logger) *CLIMetrics {
	m := metrics.NewMetrics("certmanager_cli")

	return &CLIMetrics{
		Metrics: *m,
		logger:  log,
	}
}

// CommandExecuted регистрирует выполнение команды
func (c *CLIMetrics) CommandExecuted(ctx context.Context, command string, success bool, duration time.Duration) {
	c.logger.Debug("команда выполнена",
		logger.String("command", command),
		logger.Bool("success", success),
		logger.Duration("duration", duration))

	c.RequestCount.WithLabelValues("cli", command, statusLabel(success)).Inc()
	c.RequestDuration.WithLabelValues("cli", command).Observe(duration.Seconds())

	if !success {
		c.ErrorsCount.WithLabelValues("cli", command, "execution_failed").Inc()
	}
}

// OutputGenerated регистрирует генерацию вывода
func (c *CLIMetrics) OutputGenerated(ctx context.Context, format string, recordCount int, duration time.Duration) {
	c.logger.Debug("вывод сформирован",
		logger.String("format", format),
		logger.Int("record_count", recordCount),
		logger.Duration("duration", duration))

	c.RequestCount.WithLabelValues("output", format, "success").Inc()
	c.RequestDuration.WithLabelValues("output", format).Observe(duration.Seconds())
}

// RecordError регистрирует ошибку компонента
func (c *CLIMetrics) RecordError(ctx context.Context, component, operation, errorType string) {
	c.ErrorsCount.WithLabelValues(component, operation, errorType).Inc()
}

// statusLabel возвращает метку статуса
func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// CommandTimer измеряет время выполнения команды
type CommandTimer struct {
	metrics *CLIMetrics
	ctx     context.Context
	start   time.Time
}

// NewCommandTimer создает новый таймер команды
func (c *CLIMetrics) NewCommandTimer(ctx context.Context) *CommandTimer {
	return &CommandTimer{
		metrics: c,
		ctx:     ctx,
		start:   time.Now(),
	}
}

// Finish завершает команду и регистрирует метрики
func (t *CommandTimer) Finish(command string, success bool) {
	t.metrics.CommandExecuted(t.ctx, command, success, time.Since(t.start))
}
