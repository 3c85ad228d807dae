package types

// ApiResponse is the envelope every endpoint returns. IsSuccess mirrors what
// mobile clients branch on; Result carries the payload.
type ApiResponse struct {
	Message   string      `json:"message"`
	Status    int         `json:"status"`
	IsSuccess bool        `json:"isSuccess"`
	Result    interface{} `json:"result,omitempty"`
}
