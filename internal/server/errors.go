package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	advisorydomain "github.com/ntemspark/telm/internal/advisory/domain"
	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	contractdomain "github.com/ntemspark/telm/internal/contract/domain"
	importerdomain "github.com/ntemspark/telm/internal/importer/domain"
	invitationdomain "github.com/ntemspark/telm/internal/invitation/domain"
	inventorydomain "github.com/ntemspark/telm/internal/inventory/domain"
	macdomain "github.com/ntemspark/telm/internal/macrequest/domain"
	"github.com/ntemspark/telm/internal/ocr"
	orgdomain "github.com/ntemspark/telm/internal/organization/domain"
	"github.com/ntemspark/telm/internal/tabular"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, orgdomain.ErrInvalidCompany),
		errors.Is(err, inventorydomain.ErrInvalidCompany),
		errors.Is(err, contractdomain.ErrInvalidCompany),
		errors.Is(err, macdomain.ErrInvalidCompany),
		errors.Is(err, invitationdomain.ErrInvalidCompany),
		errors.Is(err, advisorydomain.ErrInvalidCompany),
		errors.Is(err, importerdomain.ErrInvalidCompany),
		errors.Is(err, auditdomain.ErrInvalidCompany):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, orgdomain.ErrDuplicateMember),
		errors.Is(err, invitationdomain.ErrDuplicateMember),
		errors.Is(err, invitationdomain.ErrDuplicateInvite),
		errors.Is(err, importerdomain.ErrInvalidState):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, importerdomain.ErrNoValidRecords):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_valid_records",
			Message: "no valid records to import",
		}
	case errors.Is(err, tabular.ErrMalformed):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "malformed_file",
			Message: "file could not be parsed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

var validationSentinels = []error{
	ErrInvalidRequest,
	orgdomain.ErrInvalidName,
	orgdomain.ErrInvalidEmail,
	orgdomain.ErrInvalidRole,
	inventorydomain.ErrInvalidVendor,
	inventorydomain.ErrInvalidItem,
	inventorydomain.ErrInvalidType,
	inventorydomain.ErrInvalidCharge,
	inventorydomain.ErrInvalidStatus,
	inventorydomain.ErrInvalidID,
	contractdomain.ErrInvalidVendor,
	contractdomain.ErrInvalidService,
	contractdomain.ErrInvalidID,
	macdomain.ErrInvalidType,
	macdomain.ErrInvalidDescription,
	invitationdomain.ErrInvalidEmail,
	invitationdomain.ErrInvalidRole,
	advisorydomain.ErrInvalidCategory,
	advisorydomain.ErrInvalidDescription,
	importerdomain.ErrInvalidID,
	importerdomain.ErrBatchTooLarge,
	auditdomain.ErrInvalidPageToken,
	auditdomain.ErrInvalidTimeRange,
	auditdomain.ErrInvalidEventType,
	ocr.ErrEmptyImage,
	ocr.ErrImageTooLarge,
	ocr.ErrUnsupportedImage,
	tabular.ErrUnsupportedFormat,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, inventorydomain.ErrNotFound),
		errors.Is(err, contractdomain.ErrNotFound),
		errors.Is(err, importerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "invalid_request"
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "server_error", payload.Type
	case status >= 400:
		return "client_error", payload.Type
	default:
		return "", ""
	}
}
