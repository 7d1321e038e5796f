package models

import "time"

// StateEntry is one row of the local key-value state store: a JSON value
// under a string key. This is the durable backing for what the browser
// build kept in localStorage (account roster, active account id,
// per-user interest maps, chat drafts).
type StateEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
