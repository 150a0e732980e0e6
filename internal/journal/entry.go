// Package journal holds the persisted Recovery Vault document types.
package journal

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Category values.
const (
	CategoryGeneral    = "general"
	CategoryDoctor     = "doctor"
	CategoryPT         = "pt"
	CategoryMedication = "medication"
)

// Categories lists the accepted category values.
var Categories = []string{CategoryGeneral, CategoryDoctor, CategoryPT, CategoryMedication}

// Moods is the fixed mood scale, best to worst.
var Moods = []string{"😄", "🙂", "😐", "🙁", "😫"}

// DefaultMood is the neutral face.
const DefaultMood = "😐"

// Pain scale bounds.
const (
	PainMin     = 1
	PainMax     = 10
	DefaultPain = 5
)

// LogType marks whether an entry was captured live or backfilled.
type LogType string

const (
	LogLive    LogType = "Live"
	LogBacklog LogType = "Backlog"
)

// VaultMode partitions the journal. Reads filter on it.
type VaultMode string

const (
	ModeSandbox  VaultMode = "Sandbox"
	ModeForensic VaultMode = "Forensic"
)

// ParseVaultMode accepts a mode name case-insensitively. Empty means Sandbox.
func ParseVaultMode(s string) (VaultMode, bool) {
	switch s {
	case "", "sandbox", "Sandbox", "SANDBOX":
		return ModeSandbox, true
	case "forensic", "Forensic", "FORENSIC":
		return ModeForensic, true
	}
	return "", false
}

// Roles are the named authors offered by the client. Free-text helper names
// are accepted too.
var Roles = []string{"Patient", "Partner", "Parent", "Friend", "Caregiver"}

type Vitals struct {
	PainLevel      int    `json:"painLevel" validate:"min=1,max=10"`
	Mood           string `json:"mood" validate:"required,oneof=😄 🙂 😐 🙁 😫"`
	MobilityStatus string `json:"mobilityStatus,omitempty"`
}

type Care struct {
	HoursTracked decimal.Decimal `json:"hoursTracked" validate:"decgte0"`
	DistanceKm   decimal.Decimal `json:"distanceKm" validate:"decgte0"`
	Expenses     decimal.Decimal `json:"expenses" validate:"decgte0"`
}

// IsZero reports whether no care figure was recorded.
func (c Care) IsZero() bool {
	return c.HoursTracked.IsZero() && c.DistanceKm.IsZero() && c.Expenses.IsZero()
}

type Travel struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MapsLink returns a driving-directions deep link, or "" when either end is
// missing.
func (t *Travel) MapsLink() string {
	if t == nil || t.From == "" || t.To == "" {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", t.From)
	q.Set("destination", t.To)
	q.Set("travelmode", "driving")
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// MediaKind tags an uploaded blob.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// Ext is the blob extension used for the kind.
func (k MediaKind) Ext() string {
	switch k {
	case KindVideo:
		return "mp4"
	case KindAudio:
		return "m4a"
	default:
		return "jpg"
	}
}

// ContentType is the upload content type matching Ext.
func (k MediaKind) ContentType() string {
	switch k {
	case KindVideo:
		return "video/mp4"
	case KindAudio:
		return "audio/mp4"
	default:
		return "image/jpeg"
	}
}

// Folder is the bucket prefix for the kind.
func (k MediaKind) Folder() string {
	switch k {
	case KindVideo:
		return "videos"
	case KindAudio:
		return "audio"
	default:
		return "images"
	}
}

// Valid reports whether k is a known kind.
func (k MediaKind) Valid() bool {
	return k == KindImage || k == KindVideo || k == KindAudio
}

type Media struct {
	URL  string    `json:"url" validate:"required,url"`
	Kind MediaKind `json:"kind" validate:"oneof=image video audio"`
	Key  string    `json:"key,omitempty"`
}

// Entry is one committed journal document. Entries are never updated.
type Entry struct {
	ID                string    `json:"id" validate:"required,startswith=log_"`
	Author            string    `json:"author" validate:"required"`
	Timestamp         time.Time `json:"timestamp" validate:"required"`
	Notes             string    `json:"notes,omitempty"`
	Category          string    `json:"category" validate:"oneof=general doctor pt medication"`
	Vitals            Vitals    `json:"vitals"`
	Care              Care      `json:"care"`
	Travel            *Travel   `json:"travel,omitempty"`
	MediaList         []Media   `json:"mediaList" validate:"dive"`
	ExternalVideoLink string    `json:"externalVideoLink,omitempty" validate:"omitempty,url"`
	LogType           LogType   `json:"logType" validate:"oneof=Live Backlog"`
	VaultMode         VaultMode `json:"vaultMode" validate:"oneof=Sandbox Forensic"`
}

// NewID returns the entry id for a commit made at now.
func NewID(now time.Time) string {
	return "log_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Day is the UTC calendar day of the entry as YYYY-MM-DD.
func (e Entry) Day() string {
	return e.Timestamp.UTC().Format(time.DateOnly)
}
