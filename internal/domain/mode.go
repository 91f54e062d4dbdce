package domain

// Mode enumerates the avatar types a user can pick from the menu.
type Mode string

const (
	ModeDayOff           Mode = "day_off"
	ModeVacation         Mode = "vacation"
	ModeVacationWithDate Mode = "vacation_with_date"
	ModeBusinessLATAM    Mode = "business_trip_latam"
	ModeBusinessAfrica   Mode = "business_trip_africa"
	ModeBusinessPakistan Mode = "business_trip_pakistan"
	ModeAIVacation       Mode = "ai_vacation"
)

// ChoiceBusinessTrip opens the timezone submenu instead of starting a session.
const ChoiceBusinessTrip = "business_trip"

// AuxKind describes the extra input a mode collects before composition.
type AuxKind string

const (
	AuxNone     AuxKind = "none"
	AuxDate     AuxKind = "date"
	AuxLocation AuxKind = "location"
)

// LocationRule selects how strictly a destination string is validated.
type LocationRule string

const (
	// LocationLoose accepts any non-empty string after trimming.
	LocationLoose LocationRule = "loose"
	// LocationStrict requires a "city, country" pair: exactly one comma
	// separating two non-empty trimmed segments.
	LocationStrict LocationRule = "strict"
)

// ModeSpec is the static description of one avatar mode: which aux input it
// needs, which overlay backs it, whether the base image is generated, and the
// caption template burned into the artifact.
type ModeSpec struct {
	Mode         Mode
	Label        string
	Aux          AuxKind
	OverlayFile  string
	CaptionTmpl  string // fmt template applied to the aux value, empty for none
	Generated    bool   // base image comes from the generator, no photo step
	LocationRule LocationRule
}

// RequiresPhoto reports whether the mode waits for a user photo before
// composing.
func (s ModeSpec) RequiresPhoto() bool {
	return !s.Generated
}

// RegistryOptions carries the configurable behaviors the deployment decides:
// which asset backs plain vacation and how strictly locations are checked.
type RegistryOptions struct {
	VacationOverlay string
	LocationRule    LocationRule
}

// Registry holds the fixed mode catalog. It is immutable after construction.
type Registry struct {
	specs map[Mode]ModeSpec
	menu  []Mode
}

// NewRegistry builds the mode catalog. Zero-value options fall back to the
// historical defaults (vacation.png, loose locations).
func NewRegistry(opts RegistryOptions) *Registry {
	vacationOverlay := opts.VacationOverlay
	if vacationOverlay == "" {
		vacationOverlay = "vacation.png"
	}
	locationRule := opts.LocationRule
	if locationRule == "" {
		locationRule = LocationLoose
	}

	specs := map[Mode]ModeSpec{
		ModeDayOff: {
			Mode:        ModeDayOff,
			Label:       "🛌 Day Off",
			Aux:         AuxNone,
			OverlayFile: "day_off.png",
		},
		ModeVacation: {
			Mode:        ModeVacation,
			Label:       "🏖 Vacation (no date)",
			Aux:         AuxNone,
			OverlayFile: vacationOverlay,
		},
		ModeVacationWithDate: {
			Mode:        ModeVacationWithDate,
			Label:       "🏖 Vacation (with date)",
			Aux:         AuxDate,
			OverlayFile: "vacation.png",
			CaptionTmpl: "Till %s",
		},
		ModeBusinessLATAM: {
			Mode:        ModeBusinessLATAM,
			Label:       "🌎 LATAM (MSK –8)",
			Aux:         AuxNone,
			OverlayFile: "business_trip_latam.png",
		},
		ModeBusinessAfrica: {
			Mode:        ModeBusinessAfrica,
			Label:       "🌍 AFRICA (MSK –3)",
			Aux:         AuxNone,
			OverlayFile: "business_trip_africa.png",
		},
		ModeBusinessPakistan: {
			Mode:        ModeBusinessPakistan,
			Label:       "🇵🇰 PAKISTAN (MSK +2)",
			Aux:         AuxNone,
			OverlayFile: "business_trip_pakistan.png",
		},
		ModeAIVacation: {
			Mode:         ModeAIVacation,
			Label:        "✨ AI Vacation",
			Aux:          AuxLocation,
			OverlayFile:  "ai_vacation.png",
			Generated:    true,
			LocationRule: locationRule,
		},
	}

	return &Registry{
		specs: specs,
		menu:  []Mode{ModeDayOff, ModeVacation, ModeVacationWithDate, ModeAIVacation},
	}
}

// Resolve returns the spec registered for a mode.
func (r *Registry) Resolve(mode Mode) (ModeSpec, bool) {
	spec, ok := r.specs[mode]
	return spec, ok
}

// MenuChoices lists the top-level menu in display order. The business trip
// entry resolves to a submenu, not a mode.
func (r *Registry) MenuChoices() []Choice {
	choices := make([]Choice, 0, len(r.menu)+1)
	for _, mode := range r.menu {
		choices = append(choices, Choice{ID: string(mode), Label: r.specs[mode].Label})
	}
	choices = append(choices, Choice{ID: ChoiceBusinessTrip, Label: "💼 Business Trip"})
	return choices
}

// TimezoneChoices lists the business trip submenu.
func (r *Registry) TimezoneChoices() []Choice {
	modes := []Mode{ModeBusinessLATAM, ModeBusinessAfrica, ModeBusinessPakistan}
	choices := make([]Choice, 0, len(modes))
	for _, mode := range modes {
		choices = append(choices, Choice{ID: string(mode), Label: r.specs[mode].Label})
	}
	return choices
}

// Modes returns every registered spec, menu entries first. Used by the ops
// endpoint.
func (r *Registry) Modes() []ModeSpec {
	order := []Mode{
		ModeDayOff, ModeVacation, ModeVacationWithDate,
		ModeBusinessLATAM, ModeBusinessAfrica, ModeBusinessPakistan,
		ModeAIVacation,
	}
	specs := make([]ModeSpec, 0, len(order))
	for _, mode := range order {
		specs = append(specs, r.specs[mode])
	}
	return specs
}
