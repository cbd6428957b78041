package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/render"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/repository"
)

type mockInvoiceRowReader struct {
	getByIDFn    func(ctx context.Context, id int64) (*models.Invoice, error)
	listByUserFn func(ctx context.Context, userID int64) ([]*repository.InvoiceRow, error)
	listAllFn    func(ctx context.Context) ([]*repository.InvoiceRow, error)
}

func (m *mockInvoiceRowReader) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInvoiceRowReader) ListByUser(ctx context.Context, userID int64) ([]*repository.InvoiceRow, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockInvoiceRowReader) ListAll(ctx context.Context) ([]*repository.InvoiceRow, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockUserReader struct {
	getByIDFn func(ctx context.Context, id int64) (*models.User, error)
}

func (m *mockUserReader) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

type mockRenderer struct {
	renderFn func(ctx context.Context, doc *billing.InvoiceDocument, format render.PageFormat) (*render.Result, error)
}

func (m *mockRenderer) Render(ctx context.Context, doc *billing.InvoiceDocument, format render.PageFormat) (*render.Result, error) {
	if m.renderFn != nil {
		return m.renderFn(ctx, doc, format)
	}
	return &render.Result{Bytes: []byte("ok"), Filename: "invoice-" + doc.Code + ".pdf", ContentType: "application/pdf"}, nil
}

var queryNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestQueryService(invoices *mockInvoiceRowReader, workOrders *mockWorkOrderReader, sessions *mockWorkSessionReader, users *mockUserReader, renderer render.Renderer) *InvoiceQueryService {
	svc := NewInvoiceQueryService(invoices, workOrders, sessions, users, renderer,
		testDocConfig(), render.PageFormat{Size: "A4", Orientation: "P", FontFamily: "Helvetica"}, zap.NewNop())
	svc.clock = func() time.Time { return queryNow }
	return svc
}

func invoiceRow(id int64, status string, amount string, issuedAt time.Time) *repository.InvoiceRow {
	return &repository.InvoiceRow{
		Invoice: models.Invoice{
			ID:       id,
			Code:     "INV2024-001",
			UserID:   7,
			Amount:   dec(amount),
			IssuedAt: issuedAt,
			Status:   status,
		},
		CustomerName: "Mario Rossi",
		VehicleBrand: "Ducati",
		VehicleModel: "Monster 937",
		VehiclePlate: "AB12345",
	}
}

func TestInvoiceQueryService_ListForUser_Summary(t *testing.T) {
	invoices := &mockInvoiceRowReader{
		listByUserFn: func(_ context.Context, userID int64) ([]*repository.InvoiceRow, error) {
			return []*repository.InvoiceRow{
				invoiceRow(1, models.InvoiceStatusPaid, "100.00", queryNow.AddDate(0, 0, -10)),
				invoiceRow(2, models.InvoiceStatusPending, "50.00", queryNow.AddDate(0, 0, -5)),
				// Pending but 40 days old: overdue at read time.
				invoiceRow(3, models.InvoiceStatusPending, "80.00", queryNow.AddDate(0, 0, -40)),
				invoiceRow(4, models.InvoiceStatusCancelled, "30.00", queryNow.AddDate(0, 0, -3)),
			}, nil
		},
	}

	svc := newTestQueryService(invoices, &mockWorkOrderReader{}, &mockWorkSessionReader{}, &mockUserReader{}, &mockRenderer{})

	listing, err := svc.ListForUser(context.Background(), auth.Identity{UserID: 7, Role: models.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, listing.Items, 4)

	assert.Equal(t, models.InvoiceStatusPaid, listing.Items[0].Status)
	assert.Equal(t, models.InvoiceStatusPending, listing.Items[1].Status)
	assert.Equal(t, models.InvoiceStatusOverdue, listing.Items[2].Status)
	assert.Equal(t, models.InvoiceStatusCancelled, listing.Items[3].Status)

	assert.Equal(t, "100.00", listing.Summary.TotalPaid.StringFixed(2))
	assert.Equal(t, "130.00", listing.Summary.TotalOutstanding.StringFixed(2))
	assert.Equal(t, 1, listing.Summary.PendingCount)
	assert.Equal(t, 1, listing.Summary.OverdueCount)

	assert.Equal(t, "Ducati Monster 937", listing.Items[0].Vehicle)
	assert.Equal(t, listing.Items[1].IssuedAt.AddDate(0, 0, 30), listing.Items[1].DueDate)
}

func TestInvoiceQueryService_ListForUser_Empty(t *testing.T) {
	svc := newTestQueryService(&mockInvoiceRowReader{}, &mockWorkOrderReader{}, &mockWorkSessionReader{}, &mockUserReader{}, &mockRenderer{})

	listing, err := svc.ListForUser(context.Background(), auth.Identity{UserID: 7, Role: models.RoleCustomer})
	require.NoError(t, err)

	assert.Empty(t, listing.Items)
	assert.True(t, listing.Summary.TotalPaid.IsZero())
	assert.True(t, listing.Summary.TotalOutstanding.IsZero())
}

func TestInvoiceQueryService_Download(t *testing.T) {
	workOrderID := int64(10)
	invoices := &mockInvoiceRowReader{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			return &models.Invoice{
				ID: id, Code: "INV2024-001", UserID: 7,
				WorkOrderID: &workOrderID,
				Amount:      dec("244.00"),
				IssuedAt:    queryNow.AddDate(0, 0, -5),
				Status:      models.InvoiceStatusPending,
			}, nil
		},
	}
	workOrders := &mockWorkOrderReader{
		getAggregateFn: func(_ context.Context, id int64) (*models.WorkOrder, error) {
			wo := completedWorkOrder()
			wo.Motorcycle.Model = &models.MotorcycleModel{Brand: "Ducati", Name: "Monster 937", ModelYear: 2022}
			wo.Motorcycle.Plate = "AB12345"
			return wo, nil
		},
	}
	users := &mockUserReader{
		getByIDFn: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, FirstName: "Mario", LastName: "Rossi", Role: models.RoleCustomer}, nil
		},
	}

	svc := newTestQueryService(invoices, workOrders, &mockWorkSessionReader{}, users, &mockRenderer{})

	result, err := svc.Download(context.Background(), auth.Identity{UserID: 7, Role: models.RoleCustomer}, 1)
	require.NoError(t, err)

	assert.Equal(t, "invoice-INV2024-001.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Bytes)
}

func TestInvoiceQueryService_Download_ForeignInvoice(t *testing.T) {
	invoices := &mockInvoiceRowReader{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Code: "INV2024-002", UserID: 99, Status: models.InvoiceStatusPending}, nil
		},
	}

	svc := newTestQueryService(invoices, &mockWorkOrderReader{}, &mockWorkSessionReader{}, &mockUserReader{}, &mockRenderer{})

	// Someone else's invoice reads as missing, never as forbidden.
	_, err := svc.Download(context.Background(), auth.Identity{UserID: 7, Role: models.RoleCustomer}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceQueryService_Download_StaffBypassesOwnership(t *testing.T) {
	workOrderID := int64(10)
	invoices := &mockInvoiceRowReader{
		getByIDFn: func(_ context.Context, id int64) (*models.Invoice, error) {
			return &models.Invoice{
				ID: id, Code: "INV2024-003", UserID: 99,
				WorkOrderID: &workOrderID,
				IssuedAt:    queryNow.AddDate(0, 0, -1),
				Status:      models.InvoiceStatusPending,
			}, nil
		},
	}
	workOrders := &mockWorkOrderReader{
		getAggregateFn: func(_ context.Context, id int64) (*models.WorkOrder, error) {
			wo := completedWorkOrder()
			wo.Motorcycle.UserID = 99
			wo.Motorcycle.Model = &models.MotorcycleModel{Brand: "Ducati", Name: "Monster 937", ModelYear: 2022}
			return wo, nil
		},
	}
	users := &mockUserReader{
		getByIDFn: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, FirstName: "Luca", LastName: "Bianchi", Role: models.RoleCustomer}, nil
		},
	}

	svc := newTestQueryService(invoices, workOrders, &mockWorkSessionReader{}, users, &mockRenderer{})

	result, err := svc.Download(context.Background(), auth.Identity{UserID: 1, Role: models.RoleAdmin}, 1)
	require.NoError(t, err)
	assert.Equal(t, "invoice-INV2024-003.pdf", result.Filename)
}

func TestInvoiceQueryService_Download_MissingInvoice(t *testing.T) {
	svc := newTestQueryService(&mockInvoiceRowReader{}, &mockWorkOrderReader{}, &mockWorkSessionReader{}, &mockUserReader{}, &mockRenderer{})

	_, err := svc.Download(context.Background(), auth.Identity{UserID: 7, Role: models.RoleCustomer}, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
