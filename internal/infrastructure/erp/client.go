// Package erp es el cliente HTTP del servicio de existencias del ERP.
package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/pkg/config"
)

var _ counting.StockSource = (*Client)(nil)

// Client implementación de counting.StockSource sobre resty.
type Client struct {
	http *resty.Client
}

// NewClient construye el cliente con la configuración del ERP.
func NewClient(cfg config.ERPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.APIKey != "" {
		c.SetHeader("X-API-Key", cfg.APIKey)
	}
	return &Client{http: c}
}

// stockItem existencia de un código de barras en la respuesta del ERP.
type stockItem struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

type stockResponse struct {
	StoreCode string      `json:"store_code"`
	Items     []stockItem `json:"items"`
}

type apiError struct {
	Message string `json:"message"`
}

// FetchExpected consulta GET /stores/{code}/stock.
// Red caída o 5xx se reportan como domain.ErrUpstreamUnavailable; un 404 es una tienda sin existencias.
func (c *Client) FetchExpected(ctx context.Context, storeCode string) (map[string]int, error) {
	result := new(stockResponse)
	apiErr := new(apiError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get("/stores/" + url.PathEscape(storeCode) + "/stock")
	if err != nil {
		return nil, fmt.Errorf("%w: erp: %v", domain.ErrUpstreamUnavailable, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return map[string]int{}, nil
	case code >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: erp status=%d message=%s", domain.ErrUpstreamUnavailable, code, apiErr.Message)
	case code >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: erp rechazó la consulta: status=%d message=%s",
			domain.ErrUpstreamUnavailable, code, apiErr.Message)
	}

	out := make(map[string]int, len(result.Items))
	for _, it := range result.Items {
		b := strings.TrimSpace(it.Barcode)
		if b == "" || it.Quantity < 0 {
			continue
		}
		out[b] = it.Quantity
	}
	return out, nil
}
