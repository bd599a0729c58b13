package models

// SystemStats is the admin statistics response
type SystemStats struct {
	TotalUsers   int     `json:"totalUsers"`
	TotalItems   int     `json:"totalItems"`
	TotalValue   float64 `json:"totalValue"` // sum of quantity * price over all items
	SystemHealth string  `json:"systemHealth"`
}
