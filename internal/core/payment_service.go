package core

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// webhookTolerance bounds how old a signed webhook timestamp may be before it
// is rejected as a possible replay.
const webhookTolerance = 5 * time.Minute

// stripePayments is the mock Stripe integration. Checkout sessions are
// fabricated rather than created against the Stripe API; webhook signature
// verification implements Stripe's real "t=...,v1=..." HMAC-SHA256 scheme so
// an unsigned or tampered delivery is rejected before any state is touched.
type stripePayments struct {
	webhookSecret string
	now           func() time.Time
}

// NewStripePayments creates a PaymentProvider verifying webhooks against the
// given signing secret.
func NewStripePayments(webhookSecret string) PaymentProvider {
	return &stripePayments{
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// CreateCheckoutSession fabricates a checkout session for the token package.
func (p *stripePayments) CreateCheckoutSession(ctx context.Context, userID string, pkg *TokenPackage) (*CheckoutSession, error) {
	if pkg == nil {
		return nil, ErrUnknownTokenPackage
	}
	sessionID := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &CheckoutSession{
		ID:  sessionID,
		URL: "https://checkout.stripe.com/c/pay/" + sessionID,
	}, nil
}

// webhookEnvelope mirrors the subset of Stripe's event JSON the credit path
// needs.
type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			ClientReferenceID string            `json:"client_reference_id"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the Stripe-Signature header against the raw payload
// and decodes the event. All failure modes map to ErrInvalidSignature except
// a malformed body, which is its own error.
func (p *stripePayments) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	if p.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook signing secret", ErrNotConfigured)
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	age := p.now().Sub(time.Unix(timestamp, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	verified := false
	for _, sig := range signatures {
		decoded, decodeErr := hex.DecodeString(sig)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, fmt.Errorf("%w: no matching v1 signature", ErrInvalidSignature)
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	event := &WebhookEvent{
		Type:      envelope.Type,
		SessionID: envelope.Data.Object.ID,
		UserID:    envelope.Data.Object.ClientReferenceID,
		PackageID: envelope.Data.Object.Metadata["packageId"],
	}
	if raw, ok := envelope.Data.Object.Metadata["tokens"]; ok {
		tokens, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, fmt.Errorf("webhook metadata has invalid token count '%s'", raw)
		}
		event.Tokens = tokens
	} else if pkg, ok := TokenPackages[event.PackageID]; ok {
		event.Tokens = pkg.Tokens
	}
	return event, nil
}

// parseSignatureHeader splits Stripe's "t=<unix>,v1=<hex>[,v1=<hex>...]"
// header. Elements with other schemes are ignored, matching Stripe's own
// parsing rules.
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrInvalidSignature)
	}

	var timestamp int64 = -1
	var signatures []string
	for _, element := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(element), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: header is missing t or v1 elements", ErrInvalidSignature)
	}
	return timestamp, signatures, nil
}
