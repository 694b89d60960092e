package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stampflow-backend-go/internal/core"
	"stampflow-backend-go/internal/models"
)

// TokenHandler handles the token balance, purchase and webhook endpoints.
type TokenHandler struct {
	tokenService core.TokenService
	payments     core.PaymentProvider
	logger       *zap.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(ts core.TokenService, pp core.PaymentProvider, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{tokenService: ts, payments: pp, logger: logger}
}

// Balance handles GET /tokens/balance.
func (h *TokenHandler) Balance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	balance, err := h.tokenService.Balance(c.Request.Context(), userID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}

// History handles GET /tokens/history. The optional "limit" query parameter
// caps the page size; the storage layer applies a default when absent.
func (h *TokenHandler) History(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(c, "Query parameter 'limit' must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.tokenService.History(c.Request.Context(), userID, limit)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []*models.TokenTransaction{}
	}
	c.JSON(http.StatusOK, TokenHistoryResponse{Transactions: entries})
}

// Consume handles POST /tokens/consume.
func (h *TokenHandler) Consume(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.ConsumeTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	balance, err := h.tokenService.Consume(c.Request.Context(), userID, req.StampID, req.Amount)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}

// CreateCheckoutSession handles POST /tokens/checkout-session.
func (h *TokenHandler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	pkg, ok := core.TokenPackages[req.TokenPackage]
	if !ok {
		mapServiceError(c, core.ErrUnknownTokenPackage)
		return
	}

	session, err := h.payments.CreateCheckoutSession(c.Request.Context(), userID, pkg)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutSessionResponse{SessionID: session.ID, URL: session.URL})
}

// StripeWebhook handles POST /tokens/webhook/stripe. The route carries no
// auth middleware: the delivery is authenticated by its signature, which is
// verified before any ledger state is touched.
func (h *TokenHandler) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Could not read webhook payload")
		return
	}

	event, err := h.payments.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		mapServiceError(c, err)
		return
	}

	if event.Type != "checkout.session.completed" {
		// Other event types are acknowledged and ignored.
		c.JSON(http.StatusOK, WebhookAckResponse{Received: true})
		return
	}
	if event.UserID == "" || event.Tokens <= 0 {
		badRequest(c, "Webhook event is missing the user reference or token count")
		return
	}

	balance, err := h.tokenService.Credit(c.Request.Context(), event.UserID, event.Tokens, event.PackageID, event.SessionID)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	h.logger.Info("credited token purchase",
		zap.String("userId", event.UserID),
		zap.String("sessionId", event.SessionID),
		zap.Int("tokens", event.Tokens),
		zap.Int("balance", balance))
	c.JSON(http.StatusOK, WebhookAckResponse{Received: true})
}
