package model

// Discrepancy 汇总表整天缺失时，员工表中对应的一条记录
type Discrepancy struct {
	Date        string `json:"date"`
	Group       string `json:"group"`
	Salesperson string `json:"salesperson"`
}
