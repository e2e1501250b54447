package models

// Response is the envelope written by the CLI and the HTTP API.
type Response struct {
	View  string      `json:"view" yaml:"view"`
	Data  interface{} `json:"data" yaml:"data"`
	Error *ErrorInfo  `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type" yaml:"error_type"`
	Message          string   `json:"message" yaml:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
}

// NewErrorResponse creates a response carrying only an error.
func NewErrorResponse(view, errType, message string, actions ...string) Response {
	return Response{
		View: view,
		Data: nil,
		Error: &ErrorInfo{
			Type:             errType,
			Message:          message,
			SuggestedActions: actions,
		},
	}
}

// NewUnknownViewResponse creates a response for unknown view names.
func NewUnknownViewResponse(view string) Response {
	return NewErrorResponse(view, "unknown_view",
		"View '"+view+"' not recognized",
		"Valid views: dashboard, map, frequency, duration, venues, options",
	)
}
