package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stampflow-backend-go/internal/core"
	"stampflow-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuth stands in for the Firebase token middleware: every request is
// attributed to the given user ID.
func stubAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// Stub services. Each method delegates to an optional function field so a
// test configures only what it exercises; unconfigured methods fail the test.

type stubUserService struct {
	getOrCreateFn func(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
}

func (s *stubUserService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	return s.getOrCreateFn(ctx, userID, email, displayName, photoURL)
}

type stubStampService struct {
	createFromUploadFn func(ctx context.Context, userID string, uploads []core.UploadedImage) (*models.Stamp, []string, error)
	setPresetFn        func(ctx context.Context, userID, stampID, presetID string) (*models.Stamp, error)
	actionFn           func(ctx context.Context, userID, stampID string) (*models.Stamp, error)
	getOwnedFn         func(ctx context.Context, userID, stampID string) (*models.Stamp, error)
	previewFn          func(ctx context.Context, userID, stampID string) (*core.StampPreview, error)
}

func (s *stubStampService) CreateFromUpload(ctx context.Context, userID string, uploads []core.UploadedImage) (*models.Stamp, []string, error) {
	return s.createFromUploadFn(ctx, userID, uploads)
}

func (s *stubStampService) SetPreset(ctx context.Context, userID, stampID, presetID string) (*models.Stamp, error) {
	return s.setPresetFn(ctx, userID, stampID, presetID)
}

func (s *stubStampService) Generate(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	return s.actionFn(ctx, userID, stampID)
}

func (s *stubStampService) Submit(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	return s.actionFn(ctx, userID, stampID)
}

func (s *stubStampService) Retry(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	return s.actionFn(ctx, userID, stampID)
}

func (s *stubStampService) GetOwned(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	return s.getOwnedFn(ctx, userID, stampID)
}

func (s *stubStampService) Preview(ctx context.Context, userID, stampID string) (*core.StampPreview, error) {
	return s.previewFn(ctx, userID, stampID)
}

type stubTokenService struct {
	consumeFn func(ctx context.Context, userID, stampID string, amount int) (int, error)
	creditFn  func(ctx context.Context, userID string, amount int, packageID, sessionID string) (int, error)
	balanceFn func(ctx context.Context, userID string) (int, error)
	historyFn func(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error)

	creditCalls int
}

func (s *stubTokenService) Consume(ctx context.Context, userID, stampID string, amount int) (int, error) {
	return s.consumeFn(ctx, userID, stampID, amount)
}

func (s *stubTokenService) Credit(ctx context.Context, userID string, amount int, packageID, sessionID string) (int, error) {
	s.creditCalls++
	return s.creditFn(ctx, userID, amount, packageID, sessionID)
}

func (s *stubTokenService) Balance(ctx context.Context, userID string) (int, error) {
	return s.balanceFn(ctx, userID)
}

func (s *stubTokenService) History(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error) {
	return s.historyFn(ctx, userID, limit)
}

type stubPresetService struct {
	listFn func(ctx context.Context) ([]*models.Preset, error)
}

func (s *stubPresetService) List(ctx context.Context) ([]*models.Preset, error) {
	return s.listFn(ctx)
}

func (s *stubPresetService) GetByID(ctx context.Context, presetID string) (*models.Preset, error) {
	panic("GetByID not configured")
}

type stubPayments struct {
	createSessionFn func(ctx context.Context, userID string, pkg *core.TokenPackage) (*core.CheckoutSession, error)
	verifyFn        func(payload []byte, signatureHeader string) (*core.WebhookEvent, error)
}

func (s *stubPayments) CreateCheckoutSession(ctx context.Context, userID string, pkg *core.TokenPackage) (*core.CheckoutSession, error) {
	return s.createSessionFn(ctx, userID, pkg)
}

func (s *stubPayments) VerifyWebhook(payload []byte, signatureHeader string) (*core.WebhookEvent, error) {
	return s.verifyFn(payload, signatureHeader)
}

type testServices struct {
	users   *stubUserService
	stamps  *stubStampService
	tokens  *stubTokenService
	presets *stubPresetService
	pay     *stubPayments
}

func newTestRouter(svcs testServices, authMW gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	if svcs.users == nil {
		svcs.users = &stubUserService{}
	}
	if svcs.stamps == nil {
		svcs.stamps = &stubStampService{}
	}
	if svcs.tokens == nil {
		svcs.tokens = &stubTokenService{}
	}
	if svcs.presets == nil {
		svcs.presets = &stubPresetService{}
	}
	if svcs.pay == nil {
		svcs.pay = &stubPayments{}
	}
	SetupRoutes(router, zap.NewNop(), authMW, svcs.users, svcs.stamps, svcs.tokens, svcs.presets, svcs.pay)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// pngBytes is a minimal buffer http.DetectContentType sniffs as image/png.
func pngBytes() []byte {
	return []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
}

func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := writer.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func assertErrorCategory(t *testing.T, rec *httptest.ResponseRecorder, status int, category string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var envelope ErrorResponse
	decodeBody(t, rec, &envelope)
	if envelope.Error != category {
		t.Errorf("error = %q, want %q", envelope.Error, category)
	}
	if envelope.Message == "" {
		t.Error("error envelope has an empty message")
	}
}
