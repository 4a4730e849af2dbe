package entity

import "errors"

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code string, message string) *APIResponse {
	return &APIResponse{
		Success: false,
		Message: message,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}

// NewAppErrorResponse builds the error envelope for err and returns the HTTP
// status to reply with. Errors outside the AppError taxonomy are reported as
// engine failures.
func NewAppErrorResponse(err error) (int, *APIResponse) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrCodeEngineFailure.HTTPStatus(), NewErrorResponse(ErrCodeEngineFailure.String(), err.Error())
	}

	resp := NewErrorResponse(appErr.Code.String(), appErr.Error())
	resp.Error.Path = appErr.Path
	return appErr.Code.HTTPStatus(), resp
}
