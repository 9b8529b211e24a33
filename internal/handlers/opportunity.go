package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/services"
)

type OpportunityHandler struct {
  log                *logger.Logger
  opportunityService services.OpportunityService
}

func NewOpportunityHandler(log *logger.Logger, opportunityService services.OpportunityService) *OpportunityHandler {
  return &OpportunityHandler{
    log:                log.With("handler", "OpportunityHandler"),
    opportunityService: opportunityService,
  }
}

func (h *OpportunityHandler) List(c *gin.Context) {
  page, pageSize := pageParams(c)
  result, err := h.opportunityService.List(c.Request.Context(), nil, page, pageSize)
  if err != nil {
    h.log.Error("List opportunities failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *OpportunityHandler) Create(c *gin.Context) {
  var input services.OpportunityInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  opportunity, err := h.opportunityService.Create(c.Request.Context(), nil, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondCreated(c, gin.H{"opportunity": opportunity, "message": "Sales opportunity created successfully."})
}

func (h *OpportunityHandler) Get(c *gin.Context) {
  id, ok := idParam(c)
  if !ok {
    return
  }
  opportunity, err := h.opportunityService.Get(c.Request.Context(), nil, id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"opportunity": opportunity})
}

func (h *OpportunityHandler) Update(c *gin.Context) {
  id, ok := idParam(c)
  if !ok {
    return
  }
  var input services.OpportunityInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  opportunity, err := h.opportunityService.Update(c.Request.Context(), nil, id, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"opportunity": opportunity, "message": "Sales opportunity updated successfully."})
}

func (h *OpportunityHandler) Delete(c *gin.Context) {
  id, ok := idParam(c)
  if !ok {
    return
  }
  if err := h.opportunityService.Delete(c.Request.Context(), nil, id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true, "message": "Sales opportunity deleted successfully."})
}
