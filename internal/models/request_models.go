package models

// SetPresetRequest represents the request body for assigning a preset to a stamp.
type SetPresetRequest struct {
	StampID  string `json:"stampId" binding:"required"`
	PresetID string `json:"presetId" binding:"required"`
}

// StampActionRequest represents the request body for the generate, submit and
// retry endpoints, which all act on a single stamp.
type StampActionRequest struct {
	StampID string `json:"stampId" binding:"required"`
}

// ConsumeTokensRequest represents the request body for consuming tokens
// against a stamp.
type ConsumeTokensRequest struct {
	StampID string `json:"stampId" binding:"required"`
	Amount  int    `json:"amount" binding:"required,gt=0"`
}

// CheckoutSessionRequest represents the request body for creating a token
// purchase checkout session.
type CheckoutSessionRequest struct {
	TokenPackage string `json:"tokenPackage" binding:"required"`
}
