package domain

import "context"

// ArtifactFilename is the canonical name of every delivered avatar.
const ArtifactFilename = "avatar.png"

// Choice is one selectable option attached to a prompt.
type Choice struct {
	ID    string
	Label string
}

// Outbound is the delivery port the flow engine talks to. The Telegram
// adapter implements it; tests substitute a recorder.
type Outbound interface {
	// Prompt sends a text message, optionally with selectable choices.
	Prompt(ctx context.Context, userID int64, text string, choices ...Choice) error
	// Artifact delivers the composed avatar as a downloadable file.
	Artifact(ctx context.Context, userID int64, data []byte, filename string) error
	// Failure sends a user-visible error notice. The engine tears the
	// session down right after.
	Failure(ctx context.Context, userID int64, text string) error
}
