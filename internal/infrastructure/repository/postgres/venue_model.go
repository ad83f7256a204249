package postgres

import "time"

type venueTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	City      string     `db:"city"`
	Country   string     `db:"country"`
	Latitude  float64    `db:"latitude"`
	Longitude float64    `db:"longitude"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}
