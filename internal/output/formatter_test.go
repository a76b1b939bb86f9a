package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"CertManagerPlatform/internal/client"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input   string
		want    FormatType
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tc := range cases {
		got, err := ParseFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): ожидалась ошибка", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, ожидалось %q", tc.input, got, tc.want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(false)

	out, err := f.Format(map[string]string{"name": "api.example.com"})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("вывод не является валидным JSON: %v", err)
	}
	if decoded["name"] != "api.example.com" {
		t.Errorf("значение потеряно при форматировании: %v", decoded)
	}
}

func TestJSONFormatterPretty(t *testing.T) {
	f := NewJSONFormatter(true)

	out, err := f.Format(map[string]string{"name": "api.example.com"})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Error("pretty вывод должен быть многострочным")
	}
}

func TestTableDataString(t *testing.T) {
	td := NewTableData([]string{"ID", "Name"})
	td.AddRow("1", "api.example.com")
	td.AddRow("2", "db.example.com")

	out := td.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "Name") {
		t.Error("в выводе отсутствует заголовок")
	}
	if !strings.Contains(out, "api.example.com") {
		t.Error("в выводе отсутствует строка данных")
	}
}

func TestTableDataEmpty(t *testing.T) {
	td := NewTableData([]string{"ID"})
	if out := td.String(); out != "No data found" {
		t.Errorf("для пустой таблицы ожидалось 'No data found', получено %q", out)
	}
}

func TestCreateCertificatesTable(t *testing.T) {
	certs := []client.Certificate{
		{
			ID:         "cert-1",
			Name:       "api.example.com",
			OwnerEmail: "ops@example.com",
			Status:     "active",
			ExpiresAt:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	out := CreateCertificatesTable(certs, false).String()
	if !strings.Contains(out, "api.example.com") {
		t.Error("в таблице отсутствует имя сертификата")
	}
	if !strings.Contains(out, "2026-12-01") {
		t.Error("в таблице отсутствует дата истечения")
	}
}

// TestChannelsTableMasksSecrets проверяет, что значения секретов
// не попадают в вывод ни в каком виде
func TestChannelsTableMasksSecrets(t *testing.T) {
	channels := []client.Channel{
		{
			ID:      "ch-1",
			Name:    "ops-smtp",
			Type:    "smtp",
			Enabled: true,
			Params:  map[string]string{"host": "smtp.example.com"},
			Secrets: []client.SecretStatus{
				{Name: "password", IsSet: true},
				{Name: "api_key", IsSet: false},
			},
		},
	}

	out := CreateChannelsTable(channels, false).String()
	if !strings.Contains(out, "password ✓") {
		t.Error("установленный секрет должен отображаться с отметкой")
	}
	if !strings.Contains(out, "api_key ✗") {
		t.Error("неустановленный секрет должен отображаться без отметки")
	}
}

func TestCreateUsersTable(t *testing.T) {
	lastLogin := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	users := []client.ManagedUser{
		{ID: "u-1", Email: "a@b.com", DisplayName: "Admin", Role: "admin", Status: "active", LastLoginAt: &lastLogin},
		{ID: "u-2", Email: "c@d.com", DisplayName: "Viewer", Role: "viewer", Status: "disabled"},
	}

	out := CreateUsersTable(users, false).String()
	if !strings.Contains(out, "2026-08-01") {
		t.Error("в таблице отсутствует время последнего входа")
	}
	if !strings.Contains(out, "-") {
		t.Error("отсутствие входа должно отображаться прочерком")
	}
}

// TestAuditLogsTableShowsDiff проверяет, что снимки до/после попадают
// в таблицу в усеченном виде
func TestAuditLogsTableShowsDiff(t *testing.T) {
	entries := []client.AuditLogEntry{
		{
			ID:         "a-1",
			ActorEmail: "admin@example.com",
			Action:     "update",
			EntityType: "certificate",
			EntityID:   "cert-1",
			Before:     json.RawMessage(`{"name": "old.example.com"}`),
			After:      json.RawMessage(`{"name": "new.example.com"}`),
		},
		{
			ID:         "a-2",
			ActorEmail: "admin@example.com",
			Action:     "create",
			EntityType: "certificate",
			EntityID:   "cert-2",
			After:      json.RawMessage(`{"name": "fresh.example.com"}`),
		},
	}

	out := CreateAuditLogsTable(entries, false).String()
	if !strings.Contains(out, "Changes") {
		t.Error("в таблице отсутствует колонка изменений")
	}
	if !strings.Contains(out, `{"name":"old.example.com"} > {"name":"new`) {
		t.Errorf("изменение должно показывать оба снимка, получено:\n%s", out)
	}
	if !strings.Contains(out, `+ {"name":"fresh.example.com"}`) {
		t.Errorf("создание должно показывать только новый снимок, получено:\n%s", out)
	}
}

// TestCompactJSONTruncation проверяет усечение длинных снимков
func TestCompactJSONTruncation(t *testing.T) {
	long := json.RawMessage(`{"note": "` + strings.Repeat("x", 100) + `"}`)
	got := compactJSON(long, 40)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("длинный снимок должен обрезаться, получено: %s", got)
	}
	if len([]rune(got)) != 43 {
		t.Errorf("неожиданная длина усеченного снимка: %d", len([]rune(got)))
	}

	if got := compactJSON(nil, 40); got != "" {
		t.Errorf("пустой снимок должен давать пустую строку, получено: %s", got)
	}
}

func TestColorFormatterPassthrough(t *testing.T) {
	base := NewTableFormatter()
	colored := NewColorFormatter(base, false)

	td := NewTableData([]string{"ID"})
	td.AddRow("1")

	out, err := colored.Format(td)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(out, "\033[") {
		t.Error("при отключенных цветах вывод не должен содержать escape коды")
	}
}

func TestColorFormatterApplies(t *testing.T) {
	base := NewTableFormatter()
	colored := NewColorFormatter(base, true)

	td := NewTableData([]string{"Status"})
	td.AddRow("active")

	out, err := colored.Format(td)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "\033[") {
		t.Error("при включенных цветах ожидались escape коды")
	}
}
