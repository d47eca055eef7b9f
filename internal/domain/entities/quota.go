package entities

import "time"

// UnknownQuota marks a quota counter the provider did not report.
const UnknownQuota = -1

// QuotaSnapshot is a point-in-time read of the remote request quota.
type QuotaSnapshot struct {
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"reset_at"`
}

// Exhausted reports whether the remote service signaled that no requests are left.
func (q QuotaSnapshot) Exhausted() bool {
	return q.Remaining == 0
}
