package order

// SubmitOrderRequest payload for submitting a table's cart.
// swagger:model SubmitOrderRequest
type SubmitOrderRequest struct {
	// Request for the kitchen. When omitted the session's draft is used.
	Request *string `json:"request,omitempty" example:"No onions, please"`
}
