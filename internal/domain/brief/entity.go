package brief

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Brief describes an event a client wants photographed (matches briefs table)
type Brief struct {
	ID          uuid.UUID       `db:"id"`
	ClientID    uuid.UUID       `db:"client_id"`
	Title       string          `db:"title"`
	Description sql.NullString  `db:"description"`
	Location    sql.NullString  `db:"location"`
	EventDate   sql.NullTime    `db:"event_date"`
	Budget      sql.NullFloat64 `db:"budget"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// IsOwnedBy reports whether the client created the brief
func (b *Brief) IsOwnedBy(clientID uuid.UUID) bool {
	return b.ClientID == clientID
}
