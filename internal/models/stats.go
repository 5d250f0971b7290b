package models

type AdminStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalDentists     int64 `json:"totalDentists"`
	PendingDentists   int64 `json:"pendingDentists"`
	ApprovedDentists  int64 `json:"approvedDentists"`
	TotalAppointments int64 `json:"totalAppointments"`
}
