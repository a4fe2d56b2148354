package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrderViewRepo struct {
	repository.OrderRepository
	orders        map[uuid.UUID]*model.Order
	statusUpdates []string
}

func newStubOrderViewRepo(orders ...*model.Order) *stubOrderViewRepo {
	s := &stubOrderViewRepo{orders: map[uuid.UUID]*model.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrderViewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderViewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	s.orders[id].Status = status
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

type stubClinicRepo struct {
	repository.ClinicRepository
}

func (s *stubClinicRepo) GetOrInit(ctx context.Context) (*model.ClinicInfo, error) {
	return &model.ClinicInfo{Name: model.DefaultClinicName}, nil
}

type stubEnqueuer struct {
	jobs []any
	fail bool
}

func (s *stubEnqueuer) Enqueue(ctx context.Context, jobType string, payload any) error {
	if s.fail {
		return os.ErrClosed
	}
	s.jobs = append(s.jobs, payload)
	return nil
}

func pendingOrderFixture(email *string) *model.Order {
	supplier := &model.Supplier{
		ID:        uuid.New(),
		Name:      "Acme Medical",
		FaxNumber: "03-1234-5678",
		Email:     email,
	}
	item := &model.Item{ID: uuid.New(), Name: "Gauze", UnitType: model.UnitTypeBox}
	return &model.Order{
		ID:         uuid.New(),
		OrderDate:  time.Now().UTC(),
		SupplierID: supplier.ID,
		Status:     model.OrderStatusPending,
		Supplier:   supplier,
		Lines: []model.OrderItem{
			{ID: uuid.New(), ItemID: item.ID, Quantity: 3, Item: item},
		},
	}
}

func TestGenerateDocument_PendingBecomesSent(t *testing.T) {
	order := pendingOrderFixture(nil)
	repo := newStubOrderViewRepo(order)
	svc := NewOrderService(repo, nil, &stubClinicRepo{}, nil, t.TempDir())

	resp, err := svc.GenerateDocument(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusSent, resp.Status)
	assert.Equal(t, model.OrderStatusSent, order.Status)
	assert.False(t, resp.Emailed)
	_, statErr := os.Stat(resp.PDFPath)
	assert.NoError(t, statErr, "document file must exist")
}

func TestGenerateDocument_RegenerationKeepsSent(t *testing.T) {
	order := pendingOrderFixture(nil)
	repo := newStubOrderViewRepo(order)
	svc := NewOrderService(repo, nil, &stubClinicRepo{}, nil, t.TempDir())

	_, err := svc.GenerateDocument(context.Background(), order.ID)
	require.NoError(t, err)
	resp, err := svc.GenerateDocument(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusSent, resp.Status)
	// Only the first generation touches the status.
	assert.Equal(t, []string{model.OrderStatusSent}, repo.statusUpdates)
}

func TestGenerateDocument_EnqueuesEmailWhenSupplierHasOne(t *testing.T) {
	email := "orders@acme.example"
	order := pendingOrderFixture(&email)
	repo := newStubOrderViewRepo(order)
	queue := &stubEnqueuer{}
	svc := NewOrderService(repo, nil, &stubClinicRepo{}, queue, t.TempDir())

	resp, err := svc.GenerateDocument(context.Background(), order.ID)

	require.NoError(t, err)
	assert.True(t, resp.Emailed)
	assert.Len(t, queue.jobs, 1)
}

func TestGenerateDocument_EnqueueFailureIsNotFatal(t *testing.T) {
	email := "orders@acme.example"
	order := pendingOrderFixture(&email)
	repo := newStubOrderViewRepo(order)
	svc := NewOrderService(repo, nil, &stubClinicRepo{}, &stubEnqueuer{fail: true}, t.TempDir())

	resp, err := svc.GenerateDocument(context.Background(), order.ID)

	require.NoError(t, err)
	assert.False(t, resp.Emailed)
	assert.Equal(t, model.OrderStatusSent, resp.Status)
}

func TestGenerateDocument_FailedRenderLeavesOrderPending(t *testing.T) {
	order := pendingOrderFixture(nil)
	repo := newStubOrderViewRepo(order)
	// A regular file as the storage path makes directory creation fail.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	svc := NewOrderService(repo, nil, &stubClinicRepo{}, nil, blocker)

	_, err := svc.GenerateDocument(context.Background(), order.ID)

	require.Error(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Empty(t, repo.statusUpdates)
}

func TestGenerateDocument_UnknownOrder(t *testing.T) {
	svc := NewOrderService(newStubOrderViewRepo(), nil, &stubClinicRepo{}, nil, t.TempDir())
	_, err := svc.GenerateDocument(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkReceived_OnlyFromSent(t *testing.T) {
	order := pendingOrderFixture(nil)
	repo := newStubOrderViewRepo(order)
	svc := NewOrderService(repo, nil, &stubClinicRepo{}, nil, t.TempDir())

	err := svc.MarkReceived(context.Background(), order.ID)
	require.Error(t, err, "pending orders cannot be received")

	order.Status = model.OrderStatusSent
	require.NoError(t, svc.MarkReceived(context.Background(), order.ID))
	assert.Equal(t, model.OrderStatusReceived, order.Status)

	err = svc.MarkReceived(context.Background(), order.ID)
	assert.Error(t, err, "received is terminal")
}
