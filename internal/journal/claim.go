package journal

import "time"

// Claim statuses.
const (
	ClaimInProgress = "In Progress"
	ClaimDone       = "Done"
)

// TaskClaim records which helper took on a shared recovery task. Claims
// live apart from the journal and are overlaid on every claim.
type TaskClaim struct {
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	Status      string    `json:"status"`
	ClaimedBy   string    `json:"claimedBy"`
	LastUpdated time.Time `json:"lastUpdated"`
}
