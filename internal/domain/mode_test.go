package domain

import (
	"testing"
	"time"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry(RegistryOptions{})

	vac, ok := r.Resolve(ModeVacation)
	if !ok {
		t.Fatal("vacation mode missing")
	}
	if vac.OverlayFile != "vacation.png" {
		t.Errorf("vacation overlay = %q, want vacation.png", vac.OverlayFile)
	}

	ai, ok := r.Resolve(ModeAIVacation)
	if !ok {
		t.Fatal("ai vacation mode missing")
	}
	if !ai.Generated || ai.RequiresPhoto() {
		t.Errorf("ai vacation should be generated without a photo step: %+v", ai)
	}
	if ai.LocationRule != LocationLoose {
		t.Errorf("default location rule = %q, want loose", ai.LocationRule)
	}
}

func TestRegistryOverrides(t *testing.T) {
	r := NewRegistry(RegistryOptions{VacationOverlay: "vacation2.png", LocationRule: LocationStrict})

	vac, _ := r.Resolve(ModeVacation)
	if vac.OverlayFile != "vacation2.png" {
		t.Errorf("vacation overlay = %q, want vacation2.png", vac.OverlayFile)
	}
	ai, _ := r.Resolve(ModeAIVacation)
	if ai.LocationRule != LocationStrict {
		t.Errorf("location rule = %q, want strict", ai.LocationRule)
	}
	// The dated vacation keeps the historical overlay regardless.
	dated, _ := r.Resolve(ModeVacationWithDate)
	if dated.OverlayFile != "vacation.png" {
		t.Errorf("dated vacation overlay = %q, want vacation.png", dated.OverlayFile)
	}
}

func TestMenuChoices(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	menu := r.MenuChoices()
	if len(menu) != 5 {
		t.Fatalf("menu entries = %d, want 5", len(menu))
	}
	if got := menu[len(menu)-1].ID; got != ChoiceBusinessTrip {
		t.Errorf("last entry = %q, want business trip submenu", got)
	}
	tz := r.TimezoneChoices()
	if len(tz) != 3 {
		t.Fatalf("timezone entries = %d, want 3", len(tz))
	}
	for _, choice := range tz {
		if _, ok := r.Resolve(Mode(choice.ID)); !ok {
			t.Errorf("timezone choice %q does not resolve", choice.ID)
		}
	}
}

func TestNewSessionStartsAtFirstStage(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	now := time.Now()

	tests := []struct {
		mode Mode
		want Stage
	}{
		{ModeDayOff, StageAwaitingPhoto},
		{ModeVacationWithDate, StageAwaitingDate},
		{ModeAIVacation, StageAwaitingLocation},
		{ModeBusinessPakistan, StageAwaitingPhoto},
	}
	for _, tt := range tests {
		spec, _ := r.Resolve(tt.mode)
		s := NewSession(7, spec, now)
		if s.Stage != tt.want {
			t.Errorf("%s first stage = %q, want %q", tt.mode, s.Stage, tt.want)
		}
		if s.AwaitingAux() != (tt.want != StageAwaitingPhoto) {
			t.Errorf("%s AwaitingAux = %v", tt.mode, s.AwaitingAux())
		}
	}
}
