package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

type fakeStore struct {
	orders map[string]*models.Order
}

func newFakeStore(orders ...*models.Order) *fakeStore {
	s := &fakeStore{orders: map[string]*models.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeStore) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	s.orders[o.ID] = o
	return o, nil
}

func (s *fakeStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *fakeStore) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	o, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (s *fakeStore) DeleteOrder(ctx context.Context, id string) error {
	if _, ok := s.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

type fakePublisher struct {
	changes       []*models.ChangeEvent
	notifications []interface{}
}

func (p *fakePublisher) PublishChange(ctx context.Context, event *models.ChangeEvent) error {
	p.changes = append(p.changes, event)
	return nil
}

func (p *fakePublisher) PublishNotification(ctx context.Context, msg interface{}) error {
	p.notifications = append(p.notifications, msg)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateOrder_PublishesInsertEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(newFakeStore(), pub, logger.New("test"))

	created, err := svc.CreateOrder(context.Background(), &models.Order{ID: "o1", Status: models.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, "o1", created.ID)

	require.Len(t, pub.changes, 1)
	assert.Equal(t, models.EntityOrder, pub.changes[0].Entity)
	assert.Equal(t, models.EventInsert, pub.changes[0].Kind)
	assert.Equal(t, "o1", pub.changes[0].ID)
}

func TestGetOrder_OwnershipChecks(t *testing.T) {
	store := newFakeStore(
		&models.Order{ID: "mine", UserID: strPtr("u1")},
		&models.Order{ID: "theirs", UserID: strPtr("u2")},
		&models.Order{ID: "guest"},
	)
	svc := NewService(store, &fakePublisher{}, logger.New("test"))
	ctx := context.Background()

	_, err := svc.GetOrder(ctx, "mine", strPtr("u1"), false)
	assert.NoError(t, err)

	_, err = svc.GetOrder(ctx, "theirs", strPtr("u1"), false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOrder(ctx, "theirs", nil, true)
	assert.NoError(t, err, "admins see every order")

	_, err = svc.GetOrder(ctx, "guest", nil, false)
	assert.NoError(t, err, "guest orders are readable by order id")

	_, err = svc.GetOrder(ctx, "missing", strPtr("u1"), false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus_BroadcastsAndNotifies(t *testing.T) {
	store := newFakeStore(&models.Order{ID: "o1", Status: models.StatusPending})
	pub := &fakePublisher{}
	svc := NewService(store, pub, logger.New("test"))

	updated, err := svc.UpdateStatus(context.Background(), "o1", models.StatusCooking, "admin-1", "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCooking, updated.Status)

	require.Len(t, pub.changes, 1)
	assert.Equal(t, models.EventUpdate, pub.changes[0].Kind)

	require.Len(t, pub.notifications, 1)
	msg, ok := pub.notifications[0].(*models.StatusUpdateMessage)
	require.True(t, ok)
	assert.Equal(t, "o1", msg.OrderID)
	assert.Equal(t, string(models.StatusPending), msg.OldStatus)
	assert.Equal(t, string(models.StatusCooking), msg.NewStatus)
	assert.Equal(t, "admin-1", msg.ChangedBy)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc := NewService(newFakeStore(), &fakePublisher{}, logger.New("test"))

	_, err := svc.UpdateStatus(context.Background(), "missing", models.StatusCooking, "admin-1", "req-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder_PublishesDeleteEvent(t *testing.T) {
	store := newFakeStore(&models.Order{ID: "o1"})
	pub := &fakePublisher{}
	svc := NewService(store, pub, logger.New("test"))

	require.NoError(t, svc.DeleteOrder(context.Background(), "o1", "req-1"))

	require.Len(t, pub.changes, 1)
	assert.Equal(t, models.EventDelete, pub.changes[0].Kind)
	assert.Empty(t, pub.changes[0].Payload)

	_, err := store.GetOrder(context.Background(), "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListForUser_FiltersByOwner(t *testing.T) {
	store := newFakeStore(
		&models.Order{ID: "a", UserID: strPtr("u1")},
		&models.Order{ID: "b", UserID: strPtr("u2")},
		&models.Order{ID: "c", UserID: strPtr("u1")},
		&models.Order{ID: "d"},
	)
	svc := NewService(store, &fakePublisher{}, logger.New("test"))

	orders, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "u1", *o.UserID)
	}
}

// listShuffled hands back orders oldest first, the opposite of the history
// contract, so the sort below is proven by the service and not by the store.
type listShuffled struct {
	*fakeStore
	orders []models.Order
}

func (s *listShuffled) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders, nil
}

func (s *listShuffled) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders, nil
}

func TestOrderHistory_NewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &listShuffled{
		fakeStore: newFakeStore(),
		orders: []models.Order{
			{ID: "oldest", CreatedAt: base},
			{ID: "middle", CreatedAt: base.Add(time.Hour)},
			{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		},
	}
	svc := NewService(store, &fakePublisher{}, logger.New("test"))

	history, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "newest", history[0].ID)
	assert.Equal(t, "middle", history[1].ID)
	assert.Equal(t, "oldest", history[2].ID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].ID)
	assert.Equal(t, "oldest", all[2].ID)
}
