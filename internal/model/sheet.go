package model

// SheetRole 工作表在对账中的角色
type SheetRole string

const (
	SheetRoleUnknown   SheetRole = "unknown"
	SheetRoleAggregate SheetRole = "aggregate" // 汇总表（Total）
	SheetRoleDetail    SheetRole = "detail"    // 员工明细表（Employee）
)

// SheetRecognition 单个 sheet 的识别结果
type SheetRecognition struct {
	SheetName string    `json:"sheetName"`
	Index     int       `json:"index"`
	Role      SheetRole `json:"role"`
	Score     float64   `json:"score"`
	Fallback  bool      `json:"fallback"` // 按位置兜底选中
}
