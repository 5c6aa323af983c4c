package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	resp "users-api/internal/transport/http/response"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeBindError(c *gin.Context, err error) {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		tooBig  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verrs):
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Message: fieldMsg(fe), Type: fe.Tag()})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest,
			resp.ErrorWith(resp.CodeBadRequest, "invalid request data", gin.H{"details": details}))
	case errors.As(err, &typeErr):
		c.AbortWithStatusJSON(http.StatusBadRequest,
			resp.ErrorWith(resp.CodeBadRequest, "invalid request data", gin.H{"details": []FieldError{{
				Field: typeErr.Field, Message: "Expected " + typeErr.Type.String(), Type: "type",
			}}}))
	case errors.As(err, &tooBig):
		abort(c, resp.CodeTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		abort(c, resp.CodeBadRequest, "request body is empty")
	default:
		abort(c, resp.CodeBadRequest, "malformed request: "+err.Error())
	}
}

func fieldMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	case "lte":
		return "Value must be less than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}

func mapURI(c *gin.Context, obj any) error {
	m := make(map[string][]string, len(c.Params))
	for _, p := range c.Params {
		m[p.Key] = []string{p.Value}
	}
	return binding.MapFormWithTag(obj, m, "uri")
}
