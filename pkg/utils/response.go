package utils

import "github.com/gin-gonic/gin"

// APIResponse is the envelope every console endpoint answers with. RequestID
// echoes the X-Request-ID assigned by the middleware so failures can be
// correlated with the request log.
type APIResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data any) {
	c.JSON(code, APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: c.GetString("request_id"),
	})
}

func ErrorResponse(c *gin.Context, code int, message string, err error) {
	response := APIResponse{
		Success:   false,
		Message:   message,
		RequestID: c.GetString("request_id"),
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(code, response)
}
