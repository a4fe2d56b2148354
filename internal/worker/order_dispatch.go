package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"clinistock/internal/infra"
)

// JobTypeOrderDispatch emails a generated purchase-order document to the
// supplier. Enqueued by the order service right after PDF generation so
// the HTTP response never waits on SMTP.
const JobTypeOrderDispatch = "order_dispatch"

type OrderDispatchPayload struct {
	OrderID string `json:"order_id"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// NewOrderDispatchHandler returns the handler for order dispatch jobs.
func NewOrderDispatchHandler(mailer *infra.Mailer) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) error {
		var p OrderDispatchPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("order dispatch: decode payload: %w", err)
		}
		if p.ToEmail == "" {
			return fmt.Errorf("order dispatch: order %s has no recipient", p.OrderID)
		}
		return mailer.SendOrderDocument(p.ToEmail, p.Subject, p.Body, p.PDFPath)
	}
}
