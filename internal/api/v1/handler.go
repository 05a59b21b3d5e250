package v1

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reciprocas/internal/config"
)

// Version 服务版本
const Version = "1.0.0"

// Handler V1 API 处理器
type Handler struct {
	cfg       *config.AppConfig
	logger    *zap.Logger
	exportDir string
	basePath  string
	maxUpload int64 // 请求体上限（字节），0 表示不限
	downloads *downloadStore
}

// NewHandler 创建 V1 API 处理器；exportDir 为空时使用系统临时目录
func NewHandler(cfg *config.AppConfig, logger *zap.Logger, exportDir string) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exportDir == "" {
		exportDir = os.TempDir()
	}
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		exportDir: exportDir,
		basePath:  "/api",
		maxUpload: int64(cfg.Data.MaxUploadMB) << 20,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	h.basePath = router.BasePath()

	// 系统状态
	router.GET("/status", h.GetStatus)

	// 对账
	router.POST("/reconcile", h.Reconcile)
	router.POST("/reconcile/stream", h.ReconcileStream)
	router.GET("/reconcile/download/:token", h.DownloadStatement)
}
