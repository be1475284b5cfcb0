package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the envelope every JSON endpoint answers with. Exactly one of
// Data and Error is meaningful.
type Response struct {
	Data       interface{} `json:"data"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// ErrorBody describes a failed request. Fields carries request binding
// problems keyed by field name; Violations carries paper content rules.
type ErrorBody struct {
	Code       ErrCode           `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	Violations []string          `json:"violations,omitempty"`
}

// Pagination describes the page a listing returned.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Metadata includes request tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ─── Success ───────────────────────────────────────────────────────────

// Success sends data with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	send(c, statusCode, Response{Data: data})
}

// Paginated sends one page of a listing with 200 OK.
func Paginated(c *gin.Context, data interface{}, page, perPage, total int) {
	send(c, http.StatusOK, Response{Data: data, Pagination: newPagination(page, perPage, total)})
}

// ─── Failure ───────────────────────────────────────────────────────────

// Fail sends an error response with an error code and no details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	send(c, statusCode, Response{Error: errorBody(code)})
}

// FailWithFields sends an error response with field-level binding details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	body := errorBody(code)
	body.Fields = fields
	send(c, statusCode, Response{Error: body})
}

// FailWithViolations sends an error response listing every broken content rule.
func FailWithViolations(c *gin.Context, statusCode int, code ErrCode, violations []string) {
	body := errorBody(code)
	body.Violations = violations
	send(c, statusCode, Response{Error: body})
}

// AbortFail stops the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	r := Response{Error: errorBody(code), Metadata: buildMetadata(c)}
	c.AbortWithStatusJSON(statusCode, r)
}

// ─── Internal helpers ──────────────────────────────────────────────────

func send(c *gin.Context, statusCode int, r Response) {
	r.Metadata = buildMetadata(c)
	c.JSON(statusCode, r)
}

func errorBody(code ErrCode) *ErrorBody {
	return &ErrorBody{Code: code, Message: GetMessage(code)}
}

func newPagination(page, perPage, total int) *Pagination {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return &Pagination{Page: page, PerPage: perPage, TotalItems: total, TotalPages: pages}
}

func buildMetadata(c *gin.Context) Metadata {
	id := c.GetString(ContextKeyRequestID)
	if id == "" {
		// RequestContext was not installed, as in handler tests.
		id = uuid.New().String()
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
