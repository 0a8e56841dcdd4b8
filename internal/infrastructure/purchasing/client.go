// Package purchasing adaptador HTTP del servicio de órdenes de compra.
// El planificador solo necesita la cantidad pendiente por material en órdenes abiertas.
package purchasing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/mrp-planner/internal/application/mrp"
	"github.com/jhoicas/mrp-planner/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Verificar en tiempo de compilación que Client implementa OpenOrderProvider.
var _ mrp.OpenOrderProvider = (*Client)(nil)

// Client consulta GET {base}/purchase-orders?material_id=&status=open.
// Con baseURL vacío no hay servicio configurado y toda consulta devuelve cero órdenes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador. timeout es el límite de red por llamada;
// el planificador impone además su propio context.WithTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del contrato del servicio de compras ─────────────────────────

type purchaseOrder struct {
	ID               flexID      `json:"id"`
	PONumber         string      `json:"po_number"`
	Status           string      `json:"status"`
	ExpectedDelivery *time.Time  `json:"expected_delivery"`
	Items            []orderItem `json:"items"`
}

type orderItem struct {
	MaterialID       flexID          `json:"material_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Status           string          `json:"status"`
}

// flexID acepta ids como string (UUID) o como número.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// ── Implementación del puerto ────────────────────────────────────────────────

// OpenOrders devuelve las líneas pendientes del material en órdenes abiertas.
// Órdenes received, cancelled o closed se ignoran aunque el servicio las devuelva.
func (c *Client) OpenOrders(ctx context.Context, materialID string) ([]entity.OpenOrderLine, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("material_id", materialID)
	q.Set("status", "open")
	endpoint := c.baseURL + "/purchase-orders?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("purchasing: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("purchasing: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("purchasing: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("purchasing: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("purchasing: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var orders []purchaseOrder
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("purchasing: respuesta inválida: %w", err)
	}
	return openLines(orders, materialID), nil
}

func openLines(orders []purchaseOrder, materialID string) []entity.OpenOrderLine {
	var lines []entity.OpenOrderLine
	for _, po := range orders {
		if isClosed(po.Status) {
			continue
		}
		for _, it := range po.Items {
			if string(it.MaterialID) != materialID || isClosed(it.Status) {
				continue
			}
			pending := it.Quantity.Sub(it.ReceivedQuantity)
			if !pending.IsPositive() {
				continue
			}
			lines = append(lines, entity.OpenOrderLine{
				PurchaseOrderID:  string(po.ID),
				PONumber:         po.PONumber,
				MaterialID:       materialID,
				PendingQuantity:  pending,
				ExpectedDelivery: po.ExpectedDelivery,
			})
		}
	}
	return lines
}

func isClosed(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.PurchaseOrderReceived, entity.PurchaseOrderCancelled, entity.PurchaseOrderClosed:
		return true
	}
	return false
}
