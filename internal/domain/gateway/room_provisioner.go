package gateway

import (
	"context"

	"telehealth-backend/internal/domain/entity"
)

// Join-link roles understood by the video provider.
const (
	RoleHost  = "doctor"
	RoleGuest = "guest"
)

// RoomProvisioner wraps the external video-conferencing provider.
type RoomProvisioner interface {
	// EnsureRoom returns the doctor's persistent room id, provisioning one on
	// first use. Idempotent: concurrent calls for the same doctor converge on
	// a single remote room.
	EnsureRoom(ctx context.Context, doctor *entity.Doctor) (string, error)

	// MintJoinLink returns a short-lived join URL for (room, role), or ""
	// when the provider has no matching role entry. The empty string is a
	// defined degraded-success outcome, never an error to the caller.
	MintJoinLink(ctx context.Context, roomID, participant, role string) string
}
