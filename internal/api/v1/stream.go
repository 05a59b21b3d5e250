package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reciprocas/internal/reconcile"
)

type streamEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ReconcileStream 对账（SSE 进度 + 完成后提供下载地址）
// POST /api/reconcile/stream
func (h *Handler) ReconcileStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Respuesta en flujo no soportada"})
		return
	}

	send := func(event streamEvent) {
		event.Timestamp = time.Now()
		if event.Data == nil {
			event.Data = map[string]any{}
		}
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(streamEvent{Type: "start", Message: "Iniciando conciliación"})

	lastPercent := -1
	progressFn := func(p reconcile.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(streamEvent{
			Type:    "progress",
			Message: p.Stage,
			Data:    p,
		})
	}

	out, err := h.run(c, progressFn)
	if err != nil {
		data := map[string]any{}
		msg := "Error interno: " + err.Error()
		var re *requestError
		if errors.As(err, &re) {
			msg, _ = re.body["error"].(string)
			data["status"] = re.status
			for k, v := range re.body {
				if k != "error" {
					data[k] = v
				}
			}
		}
		send(streamEvent{Type: "error", Message: msg, Data: data})
		return
	}

	if out.result.Blocked {
		send(streamEvent{
			Type:    "blocked",
			Message: "Hay claves repetidas; corrige los archivos y vuelve a intentar",
			Data:    blockedResponse(out.result),
		})
		return
	}

	send(streamEvent{
		Type:    "done",
		Message: "Conciliación terminada",
		Data: map[string]any{
			"percent":     100,
			"runId":       out.result.RunID,
			"records":     len(out.result.Records),
			"downloadUrl": out.downloadURL,
		},
	})
}
