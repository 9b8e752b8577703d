package model

// SuccessCode is the envelope code returned when a request succeeds.
const SuccessCode = 1000

// APIResponse is the uniform response envelope.
type APIResponse struct {
	Code    int    `json:"code"`
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
