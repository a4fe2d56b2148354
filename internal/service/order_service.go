package service

import (
	"context"
	"fmt"

	"clinistock/internal/dto"
	"clinistock/internal/infra"
	"clinistock/internal/model"
	"clinistock/internal/repository"
	"clinistock/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Enqueuer pushes background jobs; satisfied by *worker.Pool. Nil means
// no queue is wired and dispatch is skipped.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobType string, payload any) error
}

type OrderService interface {
	List(ctx context.Context) (*dto.OrderListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	// GenerateDocument renders the purchase-order PDF, advances a pending
	// order to "sent", and queues an email to the supplier when one is
	// configured. Regeneration on a sent order is idempotent: the file is
	// rewritten, the status stays "sent".
	GenerateDocument(ctx context.Context, id uuid.UUID) (*dto.OrderDocumentResponse, error)
	// MarkReceived is the manual final transition, only valid from "sent".
	MarkReceived(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	clinicRepo   repository.ClinicRepository
	queue        Enqueuer
	storagePath  string
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	clinicRepo repository.ClinicRepository,
	queue Enqueuer,
	storagePath string,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		clinicRepo:   clinicRepo,
		queue:        queue,
		storagePath:  storagePath,
	}
}

func (s *orderService) List(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{Data: make([]dto.OrderResponse, 0, len(orders)), Total: total}
	for i := range orders {
		resp.Data = append(resp.Data, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *orderService) GenerateDocument(ctx context.Context, id uuid.UUID) (*dto.OrderDocumentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	supplier := order.Supplier
	if supplier == nil {
		supplier, err = s.supplierRepo.FindByID(ctx, order.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("supplier %s: %w", order.SupplierID, ErrNotFound)
		}
	}
	clinic, err := s.clinicRepo.GetOrInit(ctx)
	if err != nil {
		return nil, err
	}

	pdfPath, err := infra.GenerateOrderPDF(order, supplier, clinic, s.storagePath)
	if err != nil {
		return nil, err
	}

	// Document generation is the only trigger for pending → sent; a
	// received order is never dragged back.
	status := order.Status
	if order.Status == model.OrderStatusPending {
		if err := s.orderRepo.UpdateStatus(ctx, id, model.OrderStatusSent); err != nil {
			return nil, err
		}
		status = model.OrderStatusSent
	}

	emailed := false
	if supplier.Email != nil && *supplier.Email != "" && s.queue != nil {
		payload := worker.OrderDispatchPayload{
			OrderID: order.ID.String(),
			ToEmail: *supplier.Email,
			Subject: fmt.Sprintf("Purchase order %s", order.ID.String()[:8]),
			Body:    fmt.Sprintf("Please find attached purchase order %s from %s.", order.ID.String()[:8], clinic.Name),
			PDFPath: pdfPath,
		}
		if err := s.queue.Enqueue(ctx, worker.JobTypeOrderDispatch, payload); err != nil {
			// Email is best effort; the document itself succeeded.
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order dispatch enqueue failed")
		} else {
			emailed = true
		}
	}

	return &dto.OrderDocumentResponse{
		OrderID: order.ID.String(),
		PDFPath: pdfPath,
		Status:  status,
		Emailed: emailed,
	}, nil
}

func (s *orderService) MarkReceived(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if order.Status != model.OrderStatusSent {
		return fmt.Errorf("order %s is %s, only sent orders can be received", id, order.Status)
	}
	return s.orderRepo.UpdateStatus(ctx, id, model.OrderStatusReceived)
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:         o.ID.String(),
		OrderDate:  o.OrderDate.Format("2006-01-02"),
		SupplierID: o.SupplierID.String(),
		Status:     o.Status,
		Lines:      make([]dto.OrderLineResponse, 0, len(o.Lines)),
	}
	if o.Supplier != nil {
		resp.SupplierName = o.Supplier.Name
	}
	for _, line := range o.Lines {
		lr := dto.OrderLineResponse{
			ItemID:   line.ItemID.String(),
			Quantity: line.Quantity,
		}
		if line.Item != nil {
			lr.ItemName = line.Item.Name
			lr.UnitType = line.Item.UnitType
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}
