package models

import "time"

// Boat is a vessel attendance days are assigned to. Names are unique.
type Boat struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BoatFilter captures filtering options for listing boats.
type BoatFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortOrder string
}
