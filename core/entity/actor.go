package entity

import (
	"github.com/google/uuid"

	"stagecrew-api/core/constants"
)

// Actor is the identity and verified role behind a request. Services take it
// explicitly; nothing reads ambient session state.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsSchedulingAuthority() bool {
	return a.Role == constants.RoleSchedulingAuthority
}

func (a Actor) IsWorker() bool {
	return a.Role == constants.RoleWorker
}
