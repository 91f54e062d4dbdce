package domain

import "time"

// Stage is the position inside a mode's input sequence. A session only exists
// between the first menu selection and the terminal outcome; the idle state is
// the absence of a record.
type Stage string

const (
	StageAwaitingDate     Stage = "awaiting_date"
	StageAwaitingLocation Stage = "awaiting_location"
	StageAwaitingPhoto    Stage = "awaiting_photo"
)

// Session is the per-user conversation record. At most one exists per user.
// It is deleted unconditionally once composition succeeds or fails so no
// stale state leaks into the next interaction.
type Session struct {
	UserID    int64     `json:"user_id"`
	Mode      Mode      `json:"mode"`
	Stage     Stage     `json:"stage"`
	UntilDate time.Time `json:"until_date,omitempty"`
	Location  string    `json:"location,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// NewSession starts a session for the given mode at its first stage.
func NewSession(userID int64, spec ModeSpec, now time.Time) *Session {
	s := &Session{
		UserID:    userID,
		Mode:      spec.Mode,
		StartedAt: now,
	}
	switch spec.Aux {
	case AuxDate:
		s.Stage = StageAwaitingDate
	case AuxLocation:
		s.Stage = StageAwaitingLocation
	default:
		s.Stage = StageAwaitingPhoto
	}
	return s
}

// AwaitingAux reports whether the session currently consumes text input.
func (s *Session) AwaitingAux() bool {
	return s.Stage == StageAwaitingDate || s.Stage == StageAwaitingLocation
}
