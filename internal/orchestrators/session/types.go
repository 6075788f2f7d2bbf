package session

import (
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/entities"
)

// CreateSessionInput contains the owner identity for a new session.
// Exactly one of OwnerUserID / OwnerAnonymousID must be set.
type CreateSessionInput struct {
	OwnerUserID      string
	OwnerAnonymousID string
}

// CreateSessionOutput contains the created session
type CreateSessionOutput struct {
	Session *entities.Session
}

// JoinSessionInput contains the code a participant wants to attach to
type JoinSessionInput struct {
	Code string
}

// JoinSessionOutput contains the joined session
type JoinSessionOutput struct {
	Session *entities.Session
}

// EndSessionInput contains the code of the session to destroy
type EndSessionInput struct {
	Code string
}

// EndSessionOutput reports the cascade result
type EndSessionOutput struct {
	MonstersDeleted int32
}

// TouchInput contains the code of the session to bump
type TouchInput struct {
	Code string
}

// TouchOutput contains the stamp the session was bumped to
type TouchOutput struct {
	LastUpdated time.Time
}

// CheckVersionConflictInput carries a client's last-known view of the
// session clock
type CheckVersionConflictInput struct {
	Code              string
	ClientLastUpdated time.Time
}

// CheckVersionConflictOutput reports whether the client's view is stale and
// whether the session is still live. The two are independent signals so
// callers can say "session ended" rather than "please refresh".
type CheckVersionConflictOutput struct {
	HasConflict       bool
	IsActive          bool
	ServerLastUpdated time.Time
}

// GetCombatDataInput contains the code of the session to read
type GetCombatDataInput struct {
	Code string
}

// MonsterCombatState is one monster with its group attributes applied and
// its damage ledger attached
type MonsterCombatState struct {
	Monster *entities.MonsterInstance
	Entries []*entities.DamageEntry
}

// GetCombatDataOutput is the full refetch payload a client falls back to on
// conflict
type GetCombatDataOutput struct {
	Session  *entities.Session
	Monsters []*MonsterCombatState
}
