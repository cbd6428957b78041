package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

type mockAppointmentStore struct {
	createFn       func(ctx context.Context, a *models.Appointment) error
	getByIDFn      func(ctx context.Context, id int64) (*models.Appointment, error)
	listByUserFn   func(ctx context.Context, userID int64) ([]*models.Appointment, error)
	listByStatusFn func(ctx context.Context, status string) ([]*models.Appointment, error)
	updateStatusFn func(ctx context.Context, id int64, status string) error
}

func (m *mockAppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	a.ID = 1
	return nil
}

func (m *mockAppointmentStore) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAppointmentStore) ListByUser(ctx context.Context, userID int64) ([]*models.Appointment, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAppointmentStore) ListByStatus(ctx context.Context, status string) ([]*models.Appointment, error) {
	if m.listByStatusFn != nil {
		return m.listByStatusFn(ctx, status)
	}
	return nil, nil
}

func (m *mockAppointmentStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

type mockMotorcycleReader struct {
	getByIDFn func(ctx context.Context, id int64) (*models.Motorcycle, error)
}

func (m *mockMotorcycleReader) GetByID(ctx context.Context, id int64) (*models.Motorcycle, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func newTestAppointmentService(appointments *mockAppointmentStore, motorcycles *mockMotorcycleReader) *AppointmentService {
	svc := NewAppointmentService(appointments, motorcycles, zap.NewNop())
	svc.clock = func() time.Time { return time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func ownMotorcycle(_ context.Context, id int64) (*models.Motorcycle, error) {
	return &models.Motorcycle{ID: id, UserID: 7}, nil
}

func TestAppointmentService_Book(t *testing.T) {
	appointments := &mockAppointmentStore{}
	svc := newTestAppointmentService(appointments, &mockMotorcycleReader{getByIDFn: ownMotorcycle})

	a, err := svc.Book(context.Background(), testIdentity(), BookAppointmentInput{
		MotorcycleID: 3,
		ScheduledAt:  time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		Type:         models.AppointmentTypeMaintenance,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), a.UserID)
	assert.Equal(t, models.AppointmentStatusPending, a.Status)
}

func TestAppointmentService_Book_Rejections(t *testing.T) {
	svc := newTestAppointmentService(&mockAppointmentStore{}, &mockMotorcycleReader{getByIDFn: ownMotorcycle})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Book(context.Background(), testIdentity(), BookAppointmentInput{
			MotorcycleID: 3,
			ScheduledAt:  time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
			Type:         "oil_bath",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("slot in the past", func(t *testing.T) {
		_, err := svc.Book(context.Background(), testIdentity(), BookAppointmentInput{
			MotorcycleID: 3,
			ScheduledAt:  time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
			Type:         models.AppointmentTypeMaintenance,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("someone else's motorcycle", func(t *testing.T) {
		other := &mockMotorcycleReader{
			getByIDFn: func(_ context.Context, id int64) (*models.Motorcycle, error) {
				return &models.Motorcycle{ID: id, UserID: 99}, nil
			},
		}
		svc := newTestAppointmentService(&mockAppointmentStore{}, other)

		_, err := svc.Book(context.Background(), testIdentity(), BookAppointmentInput{
			MotorcycleID: 3,
			ScheduledAt:  time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
			Type:         models.AppointmentTypeMaintenance,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAppointmentService_Cancel(t *testing.T) {
	var newStatus string
	appointments := &mockAppointmentStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Appointment, error) {
			return &models.Appointment{ID: id, UserID: 7, Status: models.AppointmentStatusAccepted}, nil
		},
		updateStatusFn: func(_ context.Context, id int64, status string) error {
			newStatus = status
			return nil
		},
	}
	svc := newTestAppointmentService(appointments, &mockMotorcycleReader{})

	require.NoError(t, svc.Cancel(context.Background(), testIdentity(), 1))
	assert.Equal(t, models.AppointmentStatusCancelled, newStatus)
}

func TestAppointmentService_Cancel_ForeignAppointment(t *testing.T) {
	appointments := &mockAppointmentStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Appointment, error) {
			return &models.Appointment{ID: id, UserID: 99, Status: models.AppointmentStatusPending}, nil
		},
	}
	svc := newTestAppointmentService(appointments, &mockMotorcycleReader{})

	err := svc.Cancel(context.Background(), testIdentity(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentService_Review(t *testing.T) {
	var newStatus string
	appointments := &mockAppointmentStore{
		getByIDFn: func(_ context.Context, id int64) (*models.Appointment, error) {
			return &models.Appointment{ID: id, UserID: 7, Status: models.AppointmentStatusPending}, nil
		},
		updateStatusFn: func(_ context.Context, id int64, status string) error {
			newStatus = status
			return nil
		},
	}
	svc := newTestAppointmentService(appointments, &mockMotorcycleReader{})

	require.NoError(t, svc.Review(context.Background(), 1, true))
	assert.Equal(t, models.AppointmentStatusAccepted, newStatus)

	require.NoError(t, svc.Review(context.Background(), 1, false))
	assert.Equal(t, models.AppointmentStatusRejected, newStatus)
}
