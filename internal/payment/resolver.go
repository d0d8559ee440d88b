package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"teahouse-storefront/internal/config"
	"teahouse-storefront/internal/logger"
)

// Merchant identifier embedded in direct checkout links.
const ShopID = "1271098"

// Base URL for the provider's direct contract-link checkout, used when the
// gateway integration is unreachable. The exact path and parameter names are
// provider details, not part of this package's contract; callers may only rely
// on getting back some absolute URL.
const fallbackBaseURL = "https://yookassa.ru/checkout/payments/v2/contract"

const gatewayTimeout = 5 * time.Second

// Result is the explicit outcome of a remote link request: either a
// confirmation URL or the reason none could be obtained.
type Result struct {
	URL string
	Err error
}

// Success wraps a confirmation URL.
func Success(u string) Result {
	return Result{URL: u}
}

// Failure wraps the reason a link could not be obtained.
func Failure(err error) Result {
	return Result{Err: err}
}

// OrElse returns the confirmation URL, computing the fallback when the
// remote call failed. This is what makes the resolver total: every failure
// maps to a deterministic substitute.
func (r Result) OrElse(fallback func() string) string {
	if r.Err != nil {
		return fallback()
	}
	return r.URL
}

// Resolver obtains hosted checkout URLs for orders. The remote gateway
// integration is optional; when it is absent or failing the resolver degrades
// to a direct contract link so that checkout is never blocked.
type Resolver struct {
	gatewayURL string
	returnURL  string
	shopID     string
	client     *http.Client
	logger     *logger.Logger
}

// NewResolver creates a payment link resolver.
func NewResolver(cfg config.PaymentConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		gatewayURL: cfg.GatewayURL,
		returnURL:  cfg.ReturnURL,
		shopID:     ShopID,
		client:     &http.Client{Timeout: gatewayTimeout},
		logger:     log,
	}
}

type linkRequest struct {
	OrderID      string            `json:"orderId"`
	Amount       amountValue       `json:"amount"`
	Description  string            `json:"description"`
	Capture      bool              `json:"capture"`
	Confirmation confirmationSpec  `json:"confirmation"`
	Metadata     map[string]string `json:"metadata"`
}

type amountValue struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmationSpec struct {
	Type      string `json:"type"`
	ReturnURL string `json:"return_url"`
}

type linkResponse struct {
	ConfirmationURL string `json:"confirmation_url"`
}

// Resolve returns a payment redirect URL for the order. It never fails
// outward: any gateway error is logged and replaced by the fallback link.
func (r *Resolver) Resolve(ctx context.Context, orderID string, amount int) string {
	returnURL := r.confirmationReturnURL(orderID)

	res := r.requestLink(ctx, orderID, amount, returnURL)
	if res.Err != nil {
		r.logger.Warn("payment_gateway_fallback",
			"Payment gateway unreachable or rejected the request, using direct contract link", "",
			map[string]interface{}{
				"order_id": orderID,
				"reason":   res.Err.Error(),
			})
	}

	return res.OrElse(func() string {
		return r.fallbackURL(orderID, amount, returnURL)
	})
}

// requestLink performs the single remote call to the gateway integration.
func (r *Resolver) requestLink(ctx context.Context, orderID string, amount int, returnURL string) Result {
	body := linkRequest{
		OrderID: orderID,
		Amount: amountValue{
			Value:    FormatAmount(amount),
			Currency: "RUB",
		},
		Description: fmt.Sprintf("Payment for order %s", shortID(orderID)),
		Capture:     true,
		Confirmation: confirmationSpec{
			Type:      "redirect",
			ReturnURL: returnURL,
		},
		Metadata: map[string]string{"order_id": orderID},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return Failure(fmt.Errorf("failed to marshal link request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.gatewayURL, bytes.NewReader(raw))
	if err != nil {
		return Failure(fmt.Errorf("failed to build gateway request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Failure(fmt.Errorf("gateway request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failure(fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var decoded linkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Failure(fmt.Errorf("failed to decode gateway response: %w", err))
	}
	if decoded.ConfirmationURL == "" {
		return Failure(fmt.Errorf("gateway response is missing confirmation_url"))
	}

	return Success(decoded.ConfirmationURL)
}

// fallbackURL deterministically constructs a direct checkout link carrying
// the shop id, the formatted sum, the order id as customer reference, and the
// return URL.
func (r *Resolver) fallbackURL(orderID string, amount int, returnURL string) string {
	u, err := url.Parse(fallbackBaseURL)
	if err != nil {
		// The base is a compile-time constant; this cannot happen.
		return fallbackBaseURL
	}
	q := u.Query()
	q.Set("shopId", r.shopID)
	q.Set("sum", FormatAmount(amount))
	q.Set("customerNumber", orderID)
	q.Set("shopSuccessURL", returnURL)
	u.RawQuery = q.Encode()
	return u.String()
}

// confirmationReturnURL points back at the order-confirmation view,
// parameterized with the order id.
func (r *Resolver) confirmationReturnURL(orderID string) string {
	u, err := url.Parse(r.returnURL)
	if err != nil {
		return r.returnURL + "?orderId=" + url.QueryEscape(orderID)
	}
	q := u.Query()
	q.Set("orderId", orderID)
	u.RawQuery = q.Encode()
	return u.String()
}

// FormatAmount renders an integer ruble amount as a fixed-point decimal
// string with two places, the format the provider expects.
func FormatAmount(amount int) string {
	return fmt.Sprintf("%d.00", amount)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
