package receipt

import (
	"time"

	"github.com/vendhub/receiptd/internal/parsing"
)

// Status is the lifecycle state of a parse job. DONE and FAILED are
// terminal; PENDING is transient and, because parsing runs synchronously
// inside Submit, never observable from outside the store.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
	StatusFailed  Status = "FAILED"
)

// Job records one parse request and its terminal outcome. Parsed is set iff
// the job is DONE; Error is set iff it is FAILED.
type Job struct {
	ID        string                 `json:"jobId"`
	Status    Status                 `json:"status"`
	Parsed    *parsing.ParsedReceipt `json:"parsed_json"`
	Error     string                 `json:"error,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
