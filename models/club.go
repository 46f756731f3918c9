package models

import "time"

// Club is managed by a single club manager. The manager link is a plain
// foreign key; the reverse direction is resolved by lookup, never stored.
type Club struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      *string   `json:"city,omitempty" db:"city"`
	ManagerID int       `json:"manager_id" db:"manager_id"`
	CrestKey  *string   `json:"-" db:"crest_key"`
	CrestURL  *string   `json:"crest_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Manager *User `json:"manager,omitempty" db:"-"`
}
