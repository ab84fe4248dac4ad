package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/parcelpoint/courier-backend/pkg/config"
	apperrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"

	// DefaultCurrency is the settlement currency for parcel payments.
	DefaultCurrency = "bdt"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// Client wraps Stripe's API client plus env-specific metadata.
type Client struct {
	api         *stripe.Client
	environment string
}

// IntentInput describes a payment intent for a single parcel.
type IntentInput struct {
	Amount       int64
	Currency     string
	TrackingCode string
	PayerEmail   string
}

// Intent is the gateway handle the client needs to complete payment.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// NewClient initializes Stripe once with the configured secrets and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	api := stripe.NewClient(apiKey)
	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		api:         api,
		environment: env,
	}, nil
}

// CreatePaymentIntent registers the charge with Stripe and returns the client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, in IntentInput) (*Intent, error) {
	if c == nil || c.api == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "stripe client not initialized")
	}
	if in.Amount <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "payment amount must be positive")
	}

	currency := strings.TrimSpace(strings.ToLower(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("tracking_code", in.TrackingCode)
	if in.PayerEmail != "" {
		params.AddMetadata("payer_email", in.PayerEmail)
	}

	intent, err := c.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "creating stripe payment intent")
	}

	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}

// API returns the underlying Stripe API client.
func (c *Client) API() *stripe.Client {
	if c == nil {
		return nil
	}
	return c.api
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
