package entity

import "time"

// Store representa una tienda donde se realizan los conteos.
type Store struct {
	ID        string
	Code      string // código corto usado por el ERP
	Name      string
	Active    bool
	CreatedAt time.Time
}
