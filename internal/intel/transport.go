package intel

// ExtractRequest is the admin request to run signal extraction for a domain.
type ExtractRequest struct {
	Domain string `json:"domain" validate:"required,min=3"`
}

// ExtractAcceptedResponse acknowledges an async extraction request.
type ExtractAcceptedResponse struct {
	Domain string `json:"domain"`
	Status string `json:"status"`
}
