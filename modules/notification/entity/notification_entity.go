package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"stagecrew-api/core/entity"
)

// Notification kinds delivered to workers and scheduling authorities.
const (
	KindEventPublished     = "event_published"
	KindAssignmentProposed = "assignment_proposed"
	KindTeamValidated      = "team_validated"
	KindTeamNotRetained    = "team_not_retained"
)

type Notification struct {
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Title       string    `db:"title" json:"title"`
	Message     string    `db:"message" json:"message"`
	Kind        string    `db:"kind" json:"kind"`
	Data        JSONB     `db:"data" json:"data"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
