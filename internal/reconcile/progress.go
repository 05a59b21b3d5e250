package reconcile

import "reciprocas/internal/model"

// ProgressEvent 对账阶段完成事件（用于 UI 展示）
//
// 除 Percent/Stage 外，各字段只在对应阶段填写：读取阶段给出来源与行数，合并/校验阶段给出结果规模。
type ProgressEvent struct {
	Percent    int              `json:"percent"`
	Stage      string           `json:"stage"`
	Source     model.SourceKind `json:"source,omitempty"`
	Sheet      string           `json:"sheet,omitempty"`  // 规则/目录 sheet 名称
	Sheets     int              `json:"sheets,omitempty"` // 辅助账 sheet 数
	Records    int              `json:"records"`          // 本阶段产出的行数
	Duplicates int              `json:"duplicates,omitempty"`
}

func reportProgress(progress func(ProgressEvent), ev ProgressEvent) {
	if progress == nil {
		return
	}
	if ev.Percent < 0 {
		ev.Percent = 0
	}
	if ev.Percent > 100 {
		ev.Percent = 100
	}
	progress(ev)
}
