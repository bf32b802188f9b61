package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una entrada del catálogo maestro.
// Barcode es la llave de cruce con el ERP; este núcleo nunca lo modifica.
type Product struct {
	ID        string
	Barcode   string
	Name      string
	Category  string
	Unit      string
	UnitPrice decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
