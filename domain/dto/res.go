package dto

// Res is the generic response envelope used by the auth endpoints and the
// auth middleware.
type Res struct {
	ResponseCode    string      `json:"response_code"`
	ResponseMessage string      `json:"response_message"`
	Data            interface{} `json:"data,omitempty"`
}
