package counting

import (
	"context"
	"time"
)

// StockSource puerto hacia el ERP: existencias esperadas por código de barras para una tienda.
// Un resultado parcial es válido; los códigos ausentes simplemente no se actualizan.
type StockSource interface {
	FetchExpected(ctx context.Context, storeCode string) (map[string]int, error)
}

// Clock fuente de la hora actual (inyectable en tests).
type Clock func() time.Time
