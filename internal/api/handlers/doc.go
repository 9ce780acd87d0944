package handlers

// StatusResponse is the health and readiness response body.
type StatusResponse struct {
	Status  string `json:"status"            example:"ready"`
	Backend string `json:"backend,omitempty" example:"pipeline"`
}
