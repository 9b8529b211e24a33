package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/services"
)

type CustomerHandler struct {
  log             *logger.Logger
  customerService services.CustomerService
}

func NewCustomerHandler(log *logger.Logger, customerService services.CustomerService) *CustomerHandler {
  return &CustomerHandler{
    log:             log.With("handler", "CustomerHandler"),
    customerService: customerService,
  }
}

func pageParams(c *gin.Context) (int, int) {
  page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
  pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
  return page, pageSize
}

// idParam parses the :id path segment. A malformed id behaves like a
// missing record.
func idParam(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusNotFound, "not_found", err)
    return uuid.Nil, false
  }
  return id, true
}

func (h *CustomerHandler) List(c *gin.Context) {
  page, pageSize := pageParams(c)
  result, err := h.customerService.List(c.Request.Context(), nil, page, pageSize)
  if err != nil {
    h.log.Error("List customers failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *CustomerHandler) ListActive(c *gin.Context) {
  customers, err := h.customerService.ListActive(c.Request.Context(), nil)
  if err != nil {
    h.log.Error("List active customers failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"customers": customers})
}

func (h *CustomerHandler) Create(c *gin.Context) {
  var input services.CustomerInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  customer, err := h.customerService.Create(c.Request.Context(), nil, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondCreated(c, gin.H{"customer": customer, "message": "Customer created successfully."})
}

func (h *CustomerHandler) Get(c *gin.Context) {
  id, ok := idParam(c)
  if !ok {
    return
  }
  customer, err := h.customerService.Get(c.Request.Context(), nil, id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"customer": customer})
}

func (h *CustomerHandler) Update(c *gin.Context) {
  id, ok := idParam(c)
  if !ok {
    return
  }
  var input services.CustomerInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  customer, err := h.customerService.Update(c.Request.Context(), nil, id, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"customer": customer, "message": "Customer updated successfully."})
}

func (h *CustomerHandler) Delete(c *gin.Context) {
  id, ok := idParam(c)
  if !ok {
    return
  }
  if err := h.customerService.Delete(c.Request.Context(), nil, id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true, "message": "Customer deleted successfully."})
}
