package dto

// Envelope is the uniform wrapper around every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success wraps data in a successful envelope
func Success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failure builds an error envelope
func Failure(code, message string) Envelope {
	return Envelope{Success: false, Error: code, Message: message}
}
