package dto

// ErrorResponse HTTP error body. Details carries the full ordered list of
// validation messages when more than one field failed.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// SuccessResponse generic acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}
