package v1

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"reciprocas/internal/model"
	"reciprocas/internal/parser"
	"reciprocas/internal/reconcile"
	"reciprocas/internal/report"
)

const (
	statementFilename = "consolidado_final.xlsx"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// uploadFields multipart 字段名 → 来源
var uploadFields = []struct {
	field  string
	source model.SourceKind
}{
	{"ledger", model.SourceLedger},
	{"rules", model.SourceRules},
	{"directory", model.SourceDirectory},
}

// DuplicateDTO 重复键提示
type DuplicateDTO struct {
	model.Duplicate
	Message string `json:"message"`
}

// ReconcileResponse 对账成功响应
type ReconcileResponse struct {
	RunID       string                     `json:"runId"`
	Records     []model.ConsolidatedRecord `json:"records"`
	Sheets      []model.SheetReport        `json:"sheets"`
	DownloadURL string                     `json:"downloadUrl"`
}

// BlockedResponse 重复键阻断响应
type BlockedResponse struct {
	RunID      string         `json:"runId"`
	Blocked    bool           `json:"blocked"`
	Duplicates []DuplicateDTO `json:"duplicates"`
}

// requestError 请求级错误（HTTP 状态 + JSON 体）
type requestError struct {
	status int
	body   gin.H
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%d: %v", e.status, e.body["error"])
}

// runOutcome 一次请求的对账产出
type runOutcome struct {
	result      *reconcile.Result
	downloadURL string
}

// Reconcile 上传三个工作簿并生成报表
// POST /api/reconcile
func (h *Handler) Reconcile(c *gin.Context) {
	out, err := h.run(c, nil)
	if err != nil {
		var re *requestError
		if errors.As(err, &re) {
			c.JSON(re.status, re.body)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno: " + err.Error()})
		return
	}

	if out.result.Blocked {
		c.JSON(http.StatusConflict, blockedResponse(out.result))
		return
	}
	c.JSON(http.StatusOK, ReconcileResponse{
		RunID:       out.result.RunID,
		Records:     out.result.Records,
		Sheets:      out.result.Sheets,
		DownloadURL: out.downloadURL,
	})
}

// DownloadStatement 下载生成的报表（一次性）
// GET /api/reconcile/download/:token
func (h *Handler) DownloadStatement(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "El enlace de descarga expiró"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(statementFilename))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	h.logger.Info("statement downloaded", zap.String("run_id", item.runID))
	removeFile(h.logger, item.filePath)
}

// run 读取上传、执行对账、未阻断时落盘报表并签发下载令牌
func (h *Handler) run(c *gin.Context, progress func(reconcile.ProgressEvent)) (*runOutcome, error) {
	src, err := h.readSources(c)
	if err != nil {
		return nil, err
	}
	defer closeSources(src)

	rec := reconcile.NewReconciler(h.logger, reconcile.Options{
		RulesSheet:      h.cfg.Sources.RulesSheet,
		DirectoryMarker: h.cfg.Sources.DirectoryMarker,
		Workers:         h.cfg.Pipeline.Workers,
		Progress:        progress,
	})
	res, err := rec.Run(c.Request.Context(), src)
	if err != nil {
		return nil, classifyRunError(err)
	}

	out := &runOutcome{result: res}
	if res.Blocked {
		return out, nil
	}

	meta := report.DefaultMetadata().Merge(h.cfg.Report.Metadata()).Merge(metadataOverrides(c))
	file, err := report.Statement(res.Records, meta, h.cfg.Report.Options())
	if err != nil {
		return nil, fmt.Errorf("failed to build statement: %w", err)
	}
	defer file.Close()

	path := filepath.Join(h.exportDir, fmt.Sprintf("consolidado_%s.xlsx", res.RunID))
	if err := file.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	token := h.downloads.put(path, res.RunID, h.cfg.Data.DownloadTTL())
	out.downloadURL = h.basePath + "/reconcile/download/" + token
	h.logger.Info("statement ready",
		zap.String("run_id", res.RunID),
		zap.Int("records", len(res.Records)),
	)
	return out, nil
}

func (h *Handler) readSources(c *gin.Context) (reconcile.Sources, error) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return reconcile.Sources{}, &requestError{
				status: http.StatusRequestEntityTooLarge,
				body:   gin.H{"error": fmt.Sprintf("Los archivos superan el límite de %d MB", h.cfg.Data.MaxUploadMB)},
			}
		}
		return reconcile.Sources{}, &requestError{
			status: http.StatusBadRequest,
			body:   gin.H{"error": "Formulario inválido"},
		}
	}

	var missing []string
	for _, f := range uploadFields {
		if len(form.File[f.field]) == 0 {
			missing = append(missing, f.field)
		}
	}
	if len(missing) > 0 {
		return reconcile.Sources{}, &requestError{
			status: http.StatusBadRequest,
			body:   gin.H{"error": "Faltan archivos: " + strings.Join(missing, ", "), "missing": missing},
		}
	}

	var src reconcile.Sources
	for _, f := range uploadFields {
		wb, err := openUpload(form.File[f.field][0])
		if err != nil {
			closeSources(src)
			return reconcile.Sources{}, &requestError{
				status: http.StatusBadRequest,
				body: gin.H{
					"error":  "No se pudo abrir el archivo " + f.source.Label(),
					"source": f.source,
				},
			}
		}
		switch f.source {
		case model.SourceLedger:
			src.Ledger = wb
		case model.SourceRules:
			src.Rules = wb
		case model.SourceDirectory:
			src.Directory = wb
		}
	}
	return src, nil
}

func openUpload(fh *multipart.FileHeader) (*excelize.File, error) {
	r, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return parser.LoadWorkbook(r)
}

func closeSources(src reconcile.Sources) {
	for _, wb := range []*excelize.File{src.Ledger, src.Rules, src.Directory} {
		if wb != nil {
			_ = wb.Close()
		}
	}
}

// metadataOverrides 表单中的报表抬头覆盖项
func metadataOverrides(c *gin.Context) report.Metadata {
	return report.Metadata{
		Department:   c.PostForm("department"),
		Municipality: c.PostForm("municipality"),
		Entity:       c.PostForm("entity"),
		EntityCode:   c.PostForm("entityCode"),
		CutoffDate:   c.PostForm("cutoffDate"),
	}
}

// classifyRunError 结构错误 → 422，请求取消 → 408，其余原样返回
func classifyRunError(err error) error {
	var se *model.SourceError
	if errors.As(err, &se) {
		return &requestError{
			status: http.StatusUnprocessableEntity,
			body: gin.H{
				"error":  "Archivo " + se.Source.Label() + ": " + se.Err.Error(),
				"source": se.Source,
				"sheet":  errorSheet(se.Err),
			},
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &requestError{
			status: http.StatusRequestTimeout,
			body:   gin.H{"error": "Solicitud cancelada"},
		}
	}
	return err
}

// errorSheet 从结构错误中取出 sheet 名称
func errorSheet(err error) string {
	var hnf *model.HeaderNotFoundError
	if errors.As(err, &hnf) {
		return hnf.Sheet
	}
	var cnf *model.CodeNotFoundError
	if errors.As(err, &cnf) {
		return cnf.Sheet
	}
	var ce *model.CellError
	if errors.As(err, &ce) {
		return ce.Sheet
	}
	var snf *model.SheetNotFoundError
	if errors.As(err, &snf) {
		return snf.Want
	}
	return ""
}

func blockedResponse(res *reconcile.Result) BlockedResponse {
	dups := make([]DuplicateDTO, 0, len(res.Duplicates))
	for _, d := range res.Duplicates {
		dups = append(dups, DuplicateDTO{Duplicate: d, Message: d.Message()})
	}
	return BlockedResponse{RunID: res.RunID, Blocked: true, Duplicates: dups}
}


func removeFile(logger *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove statement file", zap.String("path", path), zap.Error(err))
	}
}
