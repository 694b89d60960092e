package config

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("STORAGE_BUCKET", "test-project.appspot.com")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("CLIENT_URL", "http://localhost:3000")
}

func TestLoadConfigWithoutExplicitCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.GoogleApplicationCredentials != "" || cfg.FirebaseServiceAccountJSONBase64 != "" {
		t.Fatalf("expected empty credential fields, got %q / %q",
			cfg.GoogleApplicationCredentials, cfg.FirebaseServiceAccountJSONBase64)
	}
	if cfg.FirebaseProjectID != "test-project" {
		t.Fatalf("expected project id 'test-project', got %q", cfg.FirebaseProjectID)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.GinMode != "debug" {
		t.Fatalf("expected default gin mode debug, got %q", cfg.GinMode)
	}
}

func TestLoadConfigMissingRequiredKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"missing project id", "FIREBASE_PROJECT_ID"},
		{"missing storage bucket", "STORAGE_BUCKET"},
		{"missing webhook secret", "STRIPE_WEBHOOK_SECRET"},
		{"missing client url", "CLIENT_URL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, "")

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error when %s is unset", tc.key)
			}
		})
	}
}
