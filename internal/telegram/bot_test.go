package telegram

import (
	"testing"

	"avatarbot/internal/domain"
)

func TestCallbackChoice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"\fday_off", "day_off"},
		{"\fbusiness_trip|extra", "business_trip"},
		{"vacation_with_date", "vacation_with_date"},
		{"\f ai_vacation ", "ai_vacation"},
	}
	for _, tt := range tests {
		if got := callbackChoice(tt.in); got != tt.want {
			t.Errorf("callbackChoice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildMarkup(t *testing.T) {
	choices := []domain.Choice{
		{ID: "day_off", Label: "Day Off"},
		{ID: "vacation", Label: "Vacation"},
	}
	markup := buildMarkup(choices)
	if got := len(markup.InlineKeyboard); got != 2 {
		t.Fatalf("rows = %d, want one per choice", got)
	}
	for i, row := range markup.InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons, want 1", i, len(row))
		}
		if row[0].Text != choices[i].Label {
			t.Errorf("row %d label = %q, want %q", i, row[0].Text, choices[i].Label)
		}
		if row[0].Unique != choices[i].ID {
			t.Errorf("row %d unique = %q, want %q", i, row[0].Unique, choices[i].ID)
		}
	}
}
