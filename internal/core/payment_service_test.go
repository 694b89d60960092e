package core

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func signWebhook(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func fixedPayments(secret string, at time.Time) *stripePayments {
	return &stripePayments{
		webhookSecret: secret,
		now:           func() time.Time { return at },
	}
}

func checkoutCompletedPayload(sessionID, userID, packageID, tokens string) []byte {
	return []byte(fmt.Sprintf(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": %q,
			"client_reference_id": %q,
			"metadata": {"packageId": %q, "tokens": %q}
		}}
	}`, sessionID, userID, packageID, tokens))
}

func TestVerifyWebhookAcceptsValidSignature(t *testing.T) {
	at := time.Now()
	payments := fixedPayments("whsec_test", at)
	payload := checkoutCompletedPayload("cs_1", "user-1", "standard", "100")

	event, err := payments.VerifyWebhook(payload, signWebhook("whsec_test", at.Unix(), payload))
	if err != nil {
		t.Fatalf("VerifyWebhook: %v", err)
	}
	if event.Type != "checkout.session.completed" {
		t.Errorf("type = %q", event.Type)
	}
	if event.SessionID != "cs_1" || event.UserID != "user-1" {
		t.Errorf("event = %+v, want session cs_1 for user-1", event)
	}
	if event.PackageID != "standard" || event.Tokens != 100 {
		t.Errorf("package = %q tokens = %d, want standard/100", event.PackageID, event.Tokens)
	}
}

func TestVerifyWebhookRejectsBadSignatures(t *testing.T) {
	at := time.Now()
	payments := fixedPayments("whsec_test", at)
	payload := checkoutCompletedPayload("cs_1", "user-1", "standard", "100")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong secret", signWebhook("whsec_other", at.Unix(), payload)},
		{"tampered payload", signWebhook("whsec_test", at.Unix(), []byte(`{}`))},
		{"no v1 element", fmt.Sprintf("t=%d", at.Unix())},
		{"malformed timestamp", "t=abc,v1=deadbeef"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := payments.VerifyWebhook(payload, tc.header); !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("err = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestVerifyWebhookRejectsStaleTimestamp(t *testing.T) {
	at := time.Now()
	payments := fixedPayments("whsec_test", at)
	payload := checkoutCompletedPayload("cs_1", "user-1", "standard", "100")

	stale := at.Add(-webhookTolerance - time.Minute).Unix()
	if _, err := payments.VerifyWebhook(payload, signWebhook("whsec_test", stale, payload)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature for stale timestamp", err)
	}
}

func TestVerifyWebhookRequiresConfiguredSecret(t *testing.T) {
	payments := fixedPayments("", time.Now())
	if _, err := payments.VerifyWebhook([]byte(`{}`), "t=1,v1=00"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestVerifyWebhookFallsBackToPackageTokens(t *testing.T) {
	at := time.Now()
	payments := fixedPayments("whsec_test", at)
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_2",
			"client_reference_id": "user-1",
			"metadata": {"packageId": "starter"}
		}}
	}`)

	event, err := payments.VerifyWebhook(payload, signWebhook("whsec_test", at.Unix(), payload))
	if err != nil {
		t.Fatalf("VerifyWebhook: %v", err)
	}
	if event.Tokens != TokenPackages["starter"].Tokens {
		t.Errorf("tokens = %d, want catalog value %d", event.Tokens, TokenPackages["starter"].Tokens)
	}
}

func TestCreateCheckoutSessionFabricatesStripeShapedIDs(t *testing.T) {
	payments := NewStripePayments("whsec_test")

	session, err := payments.CreateCheckoutSession(context.Background(), "user-1", TokenPackages["starter"])
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if !strings.HasPrefix(session.ID, "cs_test_") {
		t.Errorf("session id = %q, want cs_test_ prefix", session.ID)
	}
	if !strings.Contains(session.URL, session.ID) {
		t.Errorf("session url %q does not embed the session id", session.URL)
	}

	other, err := payments.CreateCheckoutSession(context.Background(), "user-1", TokenPackages["starter"])
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if other.ID == session.ID {
		t.Error("consecutive sessions share an id")
	}
}
