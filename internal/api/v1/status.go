package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reciprocas/internal/report"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	App             string          `json:"app"`
	Version         string          `json:"version"`
	RulesSheet      string          `json:"rulesSheet"`      // 规则 sheet 名称
	DirectoryMarker string          `json:"directoryMarker"` // 目录 sheet 关键字
	Report          report.Metadata `json:"report"`          // 报表抬头默认值
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		App:             "reciprocas",
		Version:         Version,
		RulesSheet:      h.cfg.Sources.RulesSheet,
		DirectoryMarker: h.cfg.Sources.DirectoryMarker,
		Report:          report.DefaultMetadata().Merge(h.cfg.Report.Metadata()),
	})
}
