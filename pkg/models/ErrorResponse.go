package models

// ErrorResponse is the JSON body the backend returns with a non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
