package importer

import "time"

// ProgressEvent 运行进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/sheet_done/reconcile/saved/done
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data"`    // 附加数据
	Percent   int         `json:"percent"`
	Timestamp time.Time   `json:"timestamp"`
}

func reportProgress(progress func(ProgressEvent), evt ProgressEvent) {
	if progress == nil {
		return
	}
	if evt.Percent < 0 {
		evt.Percent = 0
	}
	if evt.Percent > 100 {
		evt.Percent = 100
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	progress(evt)
}
