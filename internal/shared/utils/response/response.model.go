package response

// StandardApiResponse is the uniform body shape of every API answer, success
// and failure alike, so clients never branch on payload layout.
type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // mirrors the HTTP status
	Message    string      `json:"message"`          // short human-readable summary
	Data       interface{} `json:"data,omitempty"`   // result payload on success
	Errors     interface{} `json:"errors,omitempty"` // binding or domain error detail
}
