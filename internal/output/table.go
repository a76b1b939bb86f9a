package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"CertManagerPlatform/internal/client"
)

// TableData представляет данные для табличного вывода
type TableData struct {
	Headers []string
	Rows    []*TableRow
}

// TableRow представляет строку таблицы
type TableRow struct {
	Cells []string
	Style RowStyle
}

// RowStyle определяет стиль строки
type RowStyle int

const (
	StyleDefault RowStyle = iota
	StyleSuccess
	StyleError
	StyleWarning
)

// NewTableData создает новые табличные данные
func NewTableData(headers []string) *TableData {
	return &TableData{
		Headers: headers,
		Rows:    make([]*TableRow, 0),
	}
}

// AddRow добавляет строку
func (td *TableData) AddRow(cells ...string) {
	td.Rows = append(td.Rows, &TableRow{Cells: cells})
}

// AddRowWithStyle добавляет строку с указанием стиля
func (td *TableData) AddRowWithStyle(cells []string, style RowStyle) {
	td.Rows = append(td.Rows, &TableRow{Cells: cells, Style: style})
}

// String возвращает строковое представление таблицы
func (td *TableData) String() string {
	if len(td.Rows) == 0 {
		return "No data found"
	}

	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	if len(td.Headers) > 0 {
		fmt.Fprintln(w, strings.Join(td.Headers, "\t"))
		separators := make([]string, len(td.Headers))
		for i := range separators {
			separators[i] = strings.Repeat("-", len(td.Headers[i]))
		}
		fmt.Fprintln(w, strings.Join(separators, "\t"))
	}

	for _, row := range td.Rows {
		fmt.Fprintln(w, strings.Join(row.Cells, "\t"))
	}

	w.Flush()
	return builder.String()
}

// PrettyTable табличный вывод с цветами строк по их стилю
type PrettyTable struct {
	data      *TableData
	useColors bool
}

// NewPrettyTable создает новую таблицу
func NewPrettyTable(headers []string, useColors bool) *PrettyTable {
	return &PrettyTable{
		data:      NewTableData(headers),
		useColors: useColors,
	}
}

// AddRow добавляет строку
func (pt *PrettyTable) AddRow(cells ...string) {
	pt.data.AddRow(cells...)
}

// AddRowWithStyle добавляет строку с указанием стиля
func (pt *PrettyTable) AddRowWithStyle(cells []string, style RowStyle) {
	pt.data.AddRowWithStyle(cells, style)
}

// String возвращает отформатированную таблицу
func (pt *PrettyTable) String() string {
	if !pt.useColors {
		return pt.data.String()
	}
	return applyColors(pt.data.String())
}

// formatTime переводит время в человекочитаемый вид
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// certificateStyle выбирает стиль строки по статусу сертификата
func certificateStyle(status string) RowStyle {
	switch strings.ToLower(status) {
	case "active":
		return StyleSuccess
	case "expired", "revoked":
		return StyleError
	default:
		return StyleDefault
	}
}

// CreateCertificatesTable создает таблицу сертификатов
func CreateCertificatesTable(certs []client.Certificate, useColors bool) *PrettyTable {
	table := NewPrettyTable([]string{"ID", "Name", "Owner", "Status", "Issued", "Expires", "Channels"}, useColors)

	for _, cert := range certs {
		table.AddRowWithStyle([]string{
			cert.ID,
			cert.Name,
			cert.OwnerEmail,
			cert.Status,
			formatDate(cert.IssuedAt),
			formatDate(cert.ExpiresAt),
			fmt.Sprintf("%d", len(cert.ChannelIDs)),
		}, certificateStyle(cert.Status))
	}

	return table
}

// CreateChannelsTable создает таблицу каналов уведомлений
//
// Значения секретов в таблицу не попадают: выводится только их
// имя и признак установленности.
func CreateChannelsTable(channels []client.Channel, useColors bool) *PrettyTable {
	table := NewPrettyTable([]string{"ID", "Name", "Type", "Enabled", "Secrets", "Updated"}, useColors)

	for _, ch := range channels {
		style := StyleSuccess
		enabled := "active"
		if !ch.Enabled {
			style = StyleError
			enabled = "disabled"
		}

		table.AddRowWithStyle([]string{
			ch.ID,
			ch.Name,
			ch.Type,
			enabled,
			formatSecrets(ch.Secrets),
			formatTime(ch.UpdatedAt),
		}, style)
	}

	return table
}

// formatSecrets выводит имена секретов с признаком установленности
func formatSecrets(secrets []client.SecretStatus) string {
	if len(secrets) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(secrets))
	for _, s := range secrets {
		mark := "✗"
		if s.IsSet {
			mark = "✓"
		}
		parts = append(parts, fmt.Sprintf("%s %s", s.Name, mark))
	}
	return strings.Join(parts, ", ")
}

// CreateAlertModelsTable создает таблицу моделей оповещений
func CreateAlertModelsTable(models []client.AlertModel, useColors bool) *PrettyTable {
	table := NewPrettyTable([]string{"ID", "Name", "Before", "After", "Repeat", "Subject"}, useColors)

	for _, m := range models {
		after := "-"
		if m.DaysAfter != nil {
			after = fmt.Sprintf("%dd", *m.DaysAfter)
		}
		repeat := "-"
		if m.RepeatEvery != nil {
			repeat = fmt.Sprintf("%dd", *m.RepeatEvery)
		}

		table.AddRow(m.ID, m.Name, fmt.Sprintf("%dd", m.DaysBefore), after, repeat, m.Subject)
	}

	return table
}

// CreateUsersTable создает таблицу учетных записей
func CreateUsersTable(users []client.ManagedUser, useColors bool) *PrettyTable {
	table := NewPrettyTable([]string{"ID", "Email", "Name", "Role", "Status", "Last Login"}, useColors)

	for _, u := range users {
		style := StyleDefault
		switch strings.ToLower(u.Status) {
		case "active":
			style = StyleSuccess
		case "disabled":
			style = StyleError
		case "inactive":
			style = StyleWarning
		}

		lastLogin := "-"
		if u.LastLoginAt != nil {
			lastLogin = formatTime(*u.LastLoginAt)
		}

		table.AddRowWithStyle([]string{u.ID, u.Email, u.DisplayName, u.Role, u.Status, lastLogin}, style)
	}

	return table
}

// diffCellLimit ограничивает длину снимка в ячейке таблицы
const diffCellLimit = 40

// CreateAuditLogsTable создает таблицу журнала аудита
//
// Снимки до/после сжимаются до короткой ячейки; полные снимки
// доступны в выводе json или yaml.
func CreateAuditLogsTable(entries []client.AuditLogEntry, useColors bool) *PrettyTable {
	table := NewPrettyTable([]string{"Time", "Actor", "Action", "Entity", "Entity ID", "IP", "Changes"}, useColors)

	for _, e := range entries {
		table.AddRow(
			formatTime(e.Timestamp),
			e.ActorEmail,
			e.Action,
			e.EntityType,
			e.EntityID,
			orDash(e.Origin.IP),
			formatDiff(e.Before, e.After),
		)
	}

	return table
}

// formatDiff представляет снимки до/после одной ячейкой
func formatDiff(before, after json.RawMessage) string {
	b := compactJSON(before, diffCellLimit)
	a := compactJSON(after, diffCellLimit)

	switch {
	case b == "" && a == "":
		return "-"
	case b == "":
		return "+ " + a
	case a == "":
		return "- " + b
	default:
		return b + " > " + a
	}
}

// compactJSON сжимает JSON в одну строку и обрезает до limit символов
func compactJSON(raw json.RawMessage, limit int) string {
	if len(raw) == 0 {
		return ""
	}

	s := string(raw)
	var buf bytes.Buffer
	if json.Compact(&buf, raw) == nil {
		s = buf.String()
	}

	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return s
}

// CreateSettingsTable создает таблицу системных настроек
func CreateSettingsTable(settings *client.Settings, useColors bool) *PrettyTable {
	table := NewPrettyTable([]string{"Setting", "Value"}, useColors)

	scheduler := "disabled"
	if settings.SchedulerEnabled {
		scheduler = "active"
	}

	table.AddRow("App name", settings.AppName)
	table.AddRow("Version", settings.Version)
	table.AddRow("Default alert model", orDash(settings.DefaultAlertModelID))
	table.AddRow("Scheduler", scheduler)
	table.AddRow("Scheduler cron", orDash(settings.SchedulerCron))
	table.AddRow("Audit retention", fmt.Sprintf("%d days", settings.AuditRetentionDays))

	return table
}
