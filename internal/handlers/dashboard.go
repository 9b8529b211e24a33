package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/services"
)

type DashboardHandler struct {
  log              *logger.Logger
  dashboardService services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardService services.DashboardService) *DashboardHandler {
  return &DashboardHandler{
    log:              log.With("handler", "DashboardHandler"),
    dashboardService: dashboardService,
  }
}

func (h *DashboardHandler) Overview(c *gin.Context) {
  overview, err := h.dashboardService.Overview(c.Request.Context(), nil)
  if err != nil {
    h.log.Error("Dashboard overview failed", "error", err)
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, overview)
}
