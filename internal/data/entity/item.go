package entity

type Item struct {
	Base
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Type        string  `db:"type"` // stored uppercase
	ReleaseYear *int    `db:"release_year"`
	Genre       *string `db:"genre"`
	Metadata    []byte  `db:"metadata"` // raw jsonb, nil when absent
}
