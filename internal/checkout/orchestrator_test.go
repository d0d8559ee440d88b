package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teahouse-storefront/internal/cart"
	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/models"
)

type fakeStore struct {
	lines   []models.CartLine
	saveErr error
}

func (s *fakeStore) Load(ctx context.Context, key string) ([]models.CartLine, error) {
	return s.lines, nil
}

func (s *fakeStore) Save(ctx context.Context, key string, lines []models.CartLine) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lines = lines
	return nil
}

type fakeOrders struct {
	created *models.Order
	err     error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = o
	return o, nil
}

type fakeResolver struct {
	url   string
	calls int
}

func (f *fakeResolver) Resolve(ctx context.Context, orderID string, amount int) string {
	f.calls++
	return f.url
}

func validRequest(method models.PaymentMethod) *models.CheckoutRequest {
	return &models.CheckoutRequest{
		Name:          "Anna",
		Phone:         "+7 900 123-45-67",
		Street:        "Lenina",
		House:         "12",
		Apartment:     "34",
		PaymentMethod: method,
	}
}

func loadedCart(t *testing.T, store cart.Store, prices ...int) *cart.Cart {
	t.Helper()
	ctx := context.Background()
	c, err := cart.New(ctx, "k", store)
	require.NoError(t, err)
	for i, p := range prices {
		require.NoError(t, c.AddItem(ctx, models.Dish{ID: string(rune('a' + i)), Price: p, Available: true}))
	}
	return c
}

func TestSubmit_CashOrder(t *testing.T) {
	store := &fakeStore{}
	orders := &fakeOrders{}
	resolver := &fakeResolver{url: "https://pay.example/x"}
	o := New(orders, resolver, logger.New("test"))

	c := loadedCart(t, store, 1500)
	resp, err := o.Submit(context.Background(), c, nil, validRequest(models.PaymentCash), "req-1")
	require.NoError(t, err)

	assert.Equal(t, 1500+cart.DeliveryFee, resp.TotalAmount)
	assert.Equal(t, "cash", resp.PaymentMethod)
	assert.Empty(t, resp.ConfirmationURL)
	assert.Zero(t, resolver.calls, "cash orders must not touch the payment gateway")

	require.NotNil(t, orders.created)
	assert.Equal(t, models.StatusPending, orders.created.Status)
	assert.Equal(t, models.PaymentUnpaid, orders.created.PaymentStatus)
	assert.Nil(t, orders.created.UserID)
	assert.Len(t, orders.created.Items, 1)

	assert.Empty(t, c.Lines(), "cart must be cleared after a successful checkout")
}

func TestSubmit_OnlineOrderResolvesLink(t *testing.T) {
	store := &fakeStore{}
	orders := &fakeOrders{}
	resolver := &fakeResolver{url: "https://pay.example/x"}
	o := New(orders, resolver, logger.New("test"))

	userID := "user-1"
	c := loadedCart(t, store, 2000, 1500)
	resp, err := o.Submit(context.Background(), c, &userID, validRequest(models.PaymentOnline), "req-1")
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example/x", resp.ConfirmationURL)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 3500, resp.TotalAmount, "subtotal above the threshold ships free")
	require.NotNil(t, orders.created.UserID)
	assert.Equal(t, userID, *orders.created.UserID)
}

func TestSubmit_EmptyCart(t *testing.T) {
	o := New(&fakeOrders{}, &fakeResolver{}, logger.New("test"))
	c := loadedCart(t, &fakeStore{})

	_, err := o.Submit(context.Background(), c, nil, validRequest(models.PaymentCash), "req-1")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_BelowMinimum(t *testing.T) {
	o := New(&fakeOrders{}, &fakeResolver{}, logger.New("test"))
	c := loadedCart(t, &fakeStore{}, cart.MinOrderAmount-1)

	_, err := o.Submit(context.Background(), c, nil, validRequest(models.PaymentCash), "req-1")
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestSubmit_InvalidForm(t *testing.T) {
	o := New(&fakeOrders{}, &fakeResolver{}, logger.New("test"))
	c := loadedCart(t, &fakeStore{}, 1500)

	req := validRequest(models.PaymentCash)
	req.Phone = ""
	_, err := o.Submit(context.Background(), c, nil, req, "req-1")
	assert.Error(t, err)
}

func TestSubmit_CreateFailureLeavesCartIntact(t *testing.T) {
	store := &fakeStore{}
	orders := &fakeOrders{err: errors.New("db down")}
	o := New(orders, &fakeResolver{}, logger.New("test"))

	c := loadedCart(t, store, 1500)
	_, err := o.Submit(context.Background(), c, nil, validRequest(models.PaymentCash), "req-1")
	require.Error(t, err)

	assert.Len(t, c.Lines(), 1, "a failed order must not consume the cart")
}

func TestSubmit_CartClearFailureDoesNotFailCheckout(t *testing.T) {
	store := &fakeStore{}
	o := New(&fakeOrders{}, &fakeResolver{}, logger.New("test"))

	c := loadedCart(t, store, 1500)
	store.saveErr = errors.New("redis down")

	resp, err := o.Submit(context.Background(), c, nil, validRequest(models.PaymentCash), "req-1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
}

func TestComposeAddress(t *testing.T) {
	tests := []struct {
		name     string
		req      *models.CheckoutRequest
		expected string
	}{
		{
			name:     "required fields only",
			req:      &models.CheckoutRequest{Street: "Lenina", House: "12"},
			expected: "Lenina, bld. 12",
		},
		{
			name: "all fields",
			req: &models.CheckoutRequest{
				Street: "Lenina", House: "12", Entrance: "2",
				Floor: "5", Apartment: "34", Intercom: "34K",
			},
			expected: "Lenina, bld. 12, ent. 2, fl. 5, apt. 34, intercom 34K",
		},
		{
			name:     "sparse optional fields",
			req:      &models.CheckoutRequest{Street: "Lenina", House: "12", Apartment: "34"},
			expected: "Lenina, bld. 12, apt. 34",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComposeAddress(tt.req))
		})
	}
}
