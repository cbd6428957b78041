package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// stubTx runs the transaction body with a nil *sql.Tx so mocks can intercept
type stubTx struct{}

func (stubTx) WithTransaction(fn func(*sql.Tx) error) error { return fn(nil) }

type mockInvoiceStore struct {
	nextCodeFn     func(tx *sql.Tx, prefix string, year int) (string, error)
	createFn       func(tx *sql.Tx, inv *models.Invoice) error
	getByIDFn      func(ctx context.Context, id int64) (*models.Invoice, error)
	existsForWOFn  func(ctx context.Context, workOrderID int64) (bool, error)
	existsForWSFn  func(ctx context.Context, workSessionID int64) (bool, error)
	updateStatusFn func(ctx context.Context, inv *models.Invoice) error
}

func (m *mockInvoiceStore) NextCode(tx *sql.Tx, prefix string, year int) (string, error) {
	if m.nextCodeFn != nil {
		return m.nextCodeFn(tx, prefix, year)
	}
	return "INV2024-001", nil
}

func (m *mockInvoiceStore) Create(tx *sql.Tx, inv *models.Invoice) error {
	if m.createFn != nil {
		return m.createFn(tx, inv)
	}
	inv.ID = 1
	return nil
}

func (m *mockInvoiceStore) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInvoiceStore) ExistsForWorkOrder(ctx context.Context, workOrderID int64) (bool, error) {
	if m.existsForWOFn != nil {
		return m.existsForWOFn(ctx, workOrderID)
	}
	return false, nil
}

func (m *mockInvoiceStore) ExistsForWorkSession(ctx context.Context, workSessionID int64) (bool, error) {
	if m.existsForWSFn != nil {
		return m.existsForWSFn(ctx, workSessionID)
	}
	return false, nil
}

func (m *mockInvoiceStore) UpdateStatus(ctx context.Context, inv *models.Invoice) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, inv)
	}
	return nil
}

type mockWorkOrderReader struct {
	getAggregateFn func(ctx context.Context, id int64) (*models.WorkOrder, error)
}

func (m *mockWorkOrderReader) GetAggregate(ctx context.Context, id int64) (*models.WorkOrder, error) {
	if m.getAggregateFn != nil {
		return m.getAggregateFn(ctx, id)
	}
	return nil, nil
}

type mockWorkSessionReader struct {
	getAggregateFn func(ctx context.Context, id int64) (*models.WorkSession, error)
}

func (m *mockWorkSessionReader) GetAggregate(ctx context.Context, id int64) (*models.WorkSession, error) {
	if m.getAggregateFn != nil {
		return m.getAggregateFn(ctx, id)
	}
	return nil, nil
}

func testDocConfig() billing.DocumentConfig {
	return billing.DocumentConfig{
		VATRate:      dec("22"),
		DueDays:      30,
		CompanyName:  "Officina Rossi",
		CompanyVATID: "IT01234567890",
		CompanyAddr:  "Via Garibaldi 1, Bologna",
	}
}

func completedWorkOrder() *models.WorkOrder {
	return &models.WorkOrder{
		ID:           10,
		Code:         "WO-AB12CD34",
		MotorcycleID: 3,
		Description:  "Chain and sprocket replacement",
		Status:       models.WorkStatusCompleted,
		LaborCost:    dec("120"),
		Parts: []*models.PartUsage{
			{ID: 1, PartName: "Chain kit", PartCode: "CHN-520", Quantity: 1, UnitPrice: dec("60")},
			{ID: 2, PartName: "Sprocket nut", PartCode: "NUT-10", Quantity: 2, UnitPrice: dec("10")},
		},
		Motorcycle: &models.Motorcycle{ID: 3, UserID: 7},
	}
}

func newTestBillingService(invoices *mockInvoiceStore, workOrders *mockWorkOrderReader, sessions *mockWorkSessionReader) *BillingService {
	svc := NewBillingService(invoices, workOrders, sessions, stubTx{}, testDocConfig(), "INV", zap.NewNop())
	svc.clock = func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestBillingService_IssueForWorkOrder(t *testing.T) {
	var created *models.Invoice
	invoices := &mockInvoiceStore{
		createFn: func(_ *sql.Tx, inv *models.Invoice) error {
			inv.ID = 42
			created = inv
			return nil
		},
	}
	workOrders := &mockWorkOrderReader{
		getAggregateFn: func(_ context.Context, id int64) (*models.WorkOrder, error) {
			return completedWorkOrder(), nil
		},
	}

	svc := newTestBillingService(invoices, workOrders, &mockWorkSessionReader{})

	inv, err := svc.IssueForWorkOrder(context.Background(), 10, "thanks")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "INV2024-001", inv.Code)
	assert.Equal(t, int64(7), inv.UserID)
	require.NotNil(t, inv.WorkOrderID)
	assert.Equal(t, int64(10), *inv.WorkOrderID)
	assert.Nil(t, inv.WorkSessionID)
	// 120 labor + 60 + 20 parts = 200, plus 22% VAT.
	assert.Equal(t, "244.00", inv.Amount.StringFixed(2))
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), inv.IssuedAt)
}

func TestBillingService_IssueForWorkOrder_NotCompleted(t *testing.T) {
	workOrders := &mockWorkOrderReader{
		getAggregateFn: func(_ context.Context, id int64) (*models.WorkOrder, error) {
			wo := completedWorkOrder()
			wo.Status = models.WorkStatusInProgress
			return wo, nil
		},
	}

	svc := newTestBillingService(&mockInvoiceStore{}, workOrders, &mockWorkSessionReader{})

	_, err := svc.IssueForWorkOrder(context.Background(), 10, "")
	assert.ErrorIs(t, err, ErrNotInvoiceable)
}

func TestBillingService_IssueForWorkOrder_AlreadyInvoiced(t *testing.T) {
	invoices := &mockInvoiceStore{
		existsForWOFn: func(_ context.Context, workOrderID int64) (bool, error) {
			return true, nil
		},
	}
	workOrders := &mockWorkOrderReader{
		getAggregateFn: func(_ context.Context, id int64) (*models.WorkOrder, error) {
			return completedWorkOrder(), nil
		},
	}

	svc := newTestBillingService(invoices, workOrders, &mockWorkSessionReader{})

	_, err := svc.IssueForWorkOrder(context.Background(), 10, "")
	assert.ErrorIs(t, err, ErrAlreadyInvoiced)
}

func TestBillingService_IssueForWorkOrder_NotFound(t *testing.T) {
	svc := newTestBillingService(&mockInvoiceStore{}, &mockWorkOrderReader{}, &mockWorkSessionReader{})

	_, err := svc.IssueForWorkOrder(context.Background(), 999, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBillingService_IssueForWorkSession(t *testing.T) {
	sessions := &mockWorkSessionReader{
		getAggregateFn: func(_ context.Context, id int64) (*models.WorkSession, error) {
			return &models.WorkSession{
				ID:           5,
				Code:         "WS-EF56GH78",
				MotorcycleID: 3,
				Description:  "Dyno tuning",
				Status:       models.WorkStatusCompleted,
				HourlyRate:   dec("80"),
				Hours:        dec("1.5"),
				Motorcycle:   &models.Motorcycle{ID: 3, UserID: 7},
			}, nil
		},
	}

	svc := newTestBillingService(&mockInvoiceStore{}, &mockWorkOrderReader{}, sessions)

	inv, err := svc.IssueForWorkSession(context.Background(), 5, "")
	require.NoError(t, err)

	require.NotNil(t, inv.WorkSessionID)
	assert.Equal(t, int64(5), *inv.WorkSessionID)
	assert.Nil(t, inv.WorkOrderID)
	// 1.5h x 80 = 120, plus 22% VAT.
	assert.Equal(t, "146.40", inv.Amount.StringFixed(2))
}

func TestBillingService_MarkPaid(t *testing.T) {
	var updated *models.Invoice
	invoices := &mockInvoiceStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Code: "INV2024-001", Status: models.InvoiceStatusPending}, nil
		},
		updateStatusFn: func(_ context.Context, inv *models.Invoice) error {
			updated = inv
			return nil
		},
	}

	svc := newTestBillingService(invoices, &mockWorkOrderReader{}, &mockWorkSessionReader{})

	inv, err := svc.MarkPaid(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), *inv.PaidAt)
}

func TestBillingService_MarkPaid_Terminal(t *testing.T) {
	invoices := &mockInvoiceStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			paidAt := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
			return &models.Invoice{ID: id, Status: models.InvoiceStatusPaid, PaidAt: &paidAt}, nil
		},
	}

	svc := newTestBillingService(invoices, &mockWorkOrderReader{}, &mockWorkSessionReader{})

	_, err := svc.MarkPaid(context.Background(), 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBillingService_Cancel_PaidInvoice(t *testing.T) {
	invoices := &mockInvoiceStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Status: models.InvoiceStatusPaid}, nil
		},
	}

	svc := newTestBillingService(invoices, &mockWorkOrderReader{}, &mockWorkSessionReader{})

	_, err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBillingService_Cancel_Overdue(t *testing.T) {
	invoices := &mockInvoiceStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Status: models.InvoiceStatusOverdue}, nil
		},
	}

	svc := newTestBillingService(invoices, &mockWorkOrderReader{}, &mockWorkSessionReader{})

	inv, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusCancelled, inv.Status)
	assert.Nil(t, inv.PaidAt)
}
