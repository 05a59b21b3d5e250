package v1

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"reciprocas/internal/config"
	"reciprocas/internal/parser"
)

func xlsxBytes(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := row
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func ledgerXLSX(t *testing.T, identification string) []byte {
	return xlsxBytes(t, "Hoja1", [][]interface{}{
		{"Codigo Contable", "1105001"},
		{"Identificacion", "Descripcion", "Saldo Anterior", "Movimientos Debito", "Movimientos Credito", "Saldo Final"},
		{identification, "ACME", "0", "100", "0", "100"},
		{"", "TOTAL", "0", "100", "0", "100"},
	})
}

func rulesXLSX(t *testing.T) []byte {
	return xlsxBytes(t, "Cuentas al 100%", [][]interface{}{
		{"Código", "Descripción", "Reportable al 100%"},
		{"11.05", "Efectivo", "SI"},
	})
}

func directoryXLSX(t *testing.T, nits ...string) []byte {
	header := make([]interface{}, 0, len(parser.DirectoryLabels))
	for _, l := range parser.DirectoryLabels {
		header = append(header, l)
	}
	rows := [][]interface{}{header}
	for i, nit := range nits {
		rows = append(rows, []interface{}{90 + i, nit, "ACME"})
	}
	return xlsxBytes(t, "Directorio", rows)
}

// multipartBody files: 字段名 → xlsx 内容；fields: 普通表单字段
func multipartBody(t *testing.T, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, data := range files {
		part, err := w.CreateFormFile(name, name+".xlsx")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return body, w.FormDataContentType()
}

func newTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	return newTestRouterWith(t, config.DefaultConfig(), "/api")
}

func newTestRouterWith(t *testing.T, cfg *config.AppConfig, base string) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(cfg, nil, t.TempDir())
	r := gin.New()
	h.RegisterRoutes(r.Group(base))
	return r, h
}

func post(r http.Handler, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
