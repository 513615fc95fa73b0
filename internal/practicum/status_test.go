package practicum

import (
	"errors"
	"testing"
)

func TestParseStatusVerdicts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{
			name:   "approved",
			status: "approved",
			want:   `Изменился статус проверки работы "HW1".Работа проверена: ревьюеру всё понравилось. Ура!`,
		},
		{
			name:   "reviewing",
			status: "reviewing",
			want:   `Изменился статус проверки работы "HW1".Работа взята на проверку ревьюером.`,
		},
		{
			name:   "rejected",
			status: "rejected",
			want:   `Изменился статус проверки работы "HW1".Работа проверена: у ревьюера есть замечания.`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(map[string]any{"homework_name": "HW1", "status": tt.status})
			if err != nil {
				t.Fatalf("ParseStatus error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStatusUnknownStatus(t *testing.T) {
	t.Parallel()
	_, err := ParseStatus(map[string]any{"homework_name": "HW1", "status": "burning"})
	var unk *UnknownStatusError
	if !errors.As(err, &unk) {
		t.Fatalf("expected UnknownStatusError, got %v", err)
	}
	if unk.Status != "burning" {
		t.Fatalf("Status = %q, want %q", unk.Status, "burning")
	}
}

func TestParseStatusNonStringStatus(t *testing.T) {
	t.Parallel()
	_, err := ParseStatus(map[string]any{"homework_name": "HW1", "status": 42.0})
	var unk *UnknownStatusError
	if !errors.As(err, &unk) {
		t.Fatalf("expected UnknownStatusError, got %v", err)
	}
}

func TestParseStatusMissingKeys(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		hw      map[string]any
		wantKey string
	}{
		{name: "no status", hw: map[string]any{"homework_name": "HW1"}, wantKey: "status"},
		{name: "no name", hw: map[string]any{"status": "approved"}, wantKey: "homework_name"},
		{name: "empty", hw: map[string]any{}, wantKey: "homework_name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatus(tt.hw)
			var missing *MissingKeyError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingKeyError, got %v", err)
			}
			if missing.Key != tt.wantKey {
				t.Fatalf("Key = %q, want %q", missing.Key, tt.wantKey)
			}
		})
	}
}
