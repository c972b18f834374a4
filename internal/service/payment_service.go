package service

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"tipsy/config"
	"tipsy/internal/dto"
	"tipsy/internal/model"
	pkgerrors "tipsy/pkg/errors"
)

var (
	ErrMissingUPIHandle   = pkgerrors.Validation("MISSING_UPI_HANDLE", "upiHandle is required")
	ErrInvalidAmountINR   = pkgerrors.Validation("INVALID_AMOUNT", "amountInr must be a positive integer (INR)")
	ErrInvalidCheckoutAmt = pkgerrors.Validation("INVALID_AMOUNT", "amountCents must be a positive integer")
	ErrInvalidSuccessURL  = pkgerrors.Validation("INVALID_URL", "successUrl must be an absolute URL")
)

// UPIIntent describes a UPI deep link.
type UPIIntent struct {
	PayeeVPA  string
	PayeeName string
	AmountINR int64
	Note      string
}

// CheckoutParams describes a card checkout session.
type CheckoutParams struct {
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is what a provider returns for a created session.
type CheckoutSession struct {
	ID        string
	URL       string
	CancelURL string
}

// PaymentProvider builds payment links. Real gateways plug in here.
type PaymentProvider interface {
	UPIIntentURL(ctx context.Context, intent UPIIntent) (string, error)
	CreateCheckout(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// PaymentService validates payment link requests.
type PaymentService interface {
	UPIIntent(ctx context.Context, req *dto.UPIIntentRequest) (*dto.UPIIntentResponse, error)
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type paymentService struct {
	provider PaymentProvider
}

// NewPaymentService creates a PaymentService over provider.
func NewPaymentService(provider PaymentProvider) PaymentService {
	return &paymentService{provider: provider}
}

func (s *paymentService) UPIIntent(ctx context.Context, req *dto.UPIIntentRequest) (*dto.UPIIntentResponse, error) {
	handle := strings.TrimSpace(req.UPIHandle)
	if handle == "" {
		return nil, ErrMissingUPIHandle
	}
	if req.AmountINR == nil || *req.AmountINR < 1 {
		return nil, ErrInvalidAmountINR
	}
	link, err := s.provider.UPIIntentURL(ctx, UPIIntent{
		PayeeVPA:  handle,
		PayeeName: strings.TrimSpace(req.PayeeName),
		AmountINR: int64(math.Trunc(*req.AmountINR)),
		Note:      strings.TrimSpace(req.Note),
	})
	if err != nil {
		return nil, err
	}
	return &dto.UPIIntentResponse{URL: link}, nil
}

func (s *paymentService) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if !req.AmountCents.Valid || req.AmountCents.Value <= 0 {
		return nil, ErrInvalidCheckoutAmt
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = model.DefaultCurrency
	}
	session, err := s.provider.CreateCheckout(ctx, CheckoutParams{
		AmountCents: req.AmountCents.Value,
		Currency:    currency,
		SuccessURL:  strings.TrimSpace(req.SuccessURL),
		CancelURL:   strings.TrimSpace(req.CancelURL),
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CheckoutResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
		CancelURL:   session.CancelURL,
	}, nil
}

// ── stub provider ──

type stubPaymentProvider struct {
	payeeName  string
	successURL string
	cancelURL  string
}

// NewStubPaymentProvider returns a provider that builds UPI links locally
// and fabricates test checkout sessions without calling any gateway.
func NewStubPaymentProvider(cfg *config.PaymentConfig) PaymentProvider {
	p := &stubPaymentProvider{
		payeeName:  cfg.UPIPayeeName,
		successURL: cfg.StripeSuccessURL,
		cancelURL:  cfg.StripeCancelURL,
	}
	if p.payeeName == "" {
		p.payeeName = "TIPSY"
	}
	if p.successURL == "" {
		p.successURL = "https://example.com/success"
	}
	if p.cancelURL == "" {
		p.cancelURL = "https://example.com/cancel"
	}
	return p
}

func (p *stubPaymentProvider) UPIIntentURL(_ context.Context, intent UPIIntent) (string, error) {
	name := intent.PayeeName
	if name == "" {
		name = p.payeeName
	}
	note := intent.Note
	if note == "" {
		note = "Tip via TIPSY"
	}
	return "upi://pay?pa=" + encodeComponent(intent.PayeeVPA) +
		"&pn=" + encodeComponent(name) +
		"&am=" + strconv.FormatInt(intent.AmountINR, 10) +
		"&cu=INR" +
		"&tn=" + encodeComponent(note), nil
}

// encodeComponent percent-encodes s for a query value, using %20 for
// spaces as UPI apps expect.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (p *stubPaymentProvider) CreateCheckout(_ context.Context, params CheckoutParams) (*CheckoutSession, error) {
	success := params.SuccessURL
	if success == "" {
		success = p.successURL
	}
	u, err := url.Parse(success)
	if err != nil || !u.IsAbs() {
		return nil, ErrInvalidSuccessURL
	}

	sid := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	q := u.Query()
	q.Set("session_id", sid)
	q.Set("amount_cents", strconv.FormatInt(params.AmountCents, 10))
	q.Set("currency", params.Currency)
	if len(params.Metadata) > 0 {
		if meta, err := json.Marshal(params.Metadata); err == nil {
			q.Set("meta", string(meta))
		}
	}
	u.RawQuery = q.Encode()

	cancel := params.CancelURL
	if cancel == "" {
		cancel = p.cancelURL
	}
	return &CheckoutSession{ID: sid, URL: u.String(), CancelURL: cancel}, nil
}
