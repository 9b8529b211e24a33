package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/crm-backend/internal/apperr"
)

type APIError struct {
  Message string            `json:"message"`
  Code    string            `json:"code,omitempty"`
  Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps the two domain error categories onto statuses:
// validation failures become 422 with the field map attached, missing ids
// become 404, anything else is a 500.
func RespondServiceError(c *gin.Context, err error) {
  if ve, ok := apperr.AsValidation(err); ok {
    c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{
      Error: APIError{
        Message: "validation failed",
        Code:    "validation_failed",
        Fields:  ve.Fields,
      },
    })
    return
  }
  if apperr.IsNotFound(err) {
    RespondError(c, http.StatusNotFound, "not_found", err)
    return
  }
  RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
