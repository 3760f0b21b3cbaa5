package outbox

import "time"

// TopicActivityEvents carries every activity lifecycle event, partitioned by
// user so a consumer sees one user's events in order.
const TopicActivityEvents = "carbon.activity_events"

// Event types recorded in the outbox table.
const (
	EventActivityLogged  = "activity.logged"
	EventActivityDeleted = "activity.deleted"
)

// ActivityLogged is the payload published when a new activity is persisted.
type ActivityLogged struct {
	ActivityID   string    `json:"activity_id"`
	UserID       string    `json:"user_id"`
	Category     string    `json:"category"`
	EmissionKg   float64   `json:"emission_kg"`
	ActivityDate string    `json:"activity_date"`
	LoggedAt     time.Time `json:"logged_at"`
}

// ActivityDeleted is the payload published when an activity is removed.
type ActivityDeleted struct {
	ActivityID string    `json:"activity_id"`
	UserID     string    `json:"user_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}
