package domain

import "time"

// ScanJob tracks a scan that was forwarded to the backend engine.
type ScanJob struct {
	ID        string
	TargetURL string
	ClientID  string
	StartedAt time.Time
}

// ScanStatus reports the backend-observed state of a scan job.
type ScanStatus struct {
	JobID    string
	Progress int
	Complete bool
}
