package models

// ErrorMessageResponse mirrors the body written by config.ErrorStatus,
// where Response carries the message and the wrapped error joined together
type ErrorMessageResponse struct {
	Response string `json:"response"`
}
