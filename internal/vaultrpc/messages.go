package vaultrpc

import (
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

type CreateEntryRequest struct {
	Entry journal.Entry `json:"entry"`
}

type CreateEntryResponse struct {
	ID string `json:"id"`
}

type ListEntriesRequest struct {
	Mode string `json:"mode,omitempty"`
}

type ListEntriesResponse struct {
	Entries []journal.Entry `json:"entries"`
}

type WatchRequest struct {
	Mode string `json:"mode,omitempty"`
}

type WatchEvent struct {
	ID   string `json:"id"`
	Op   string `json:"op"`
	Mode string `json:"mode"`
}

// PresignUploadRequest.Target is a media kind (image, video, audio) or
// "report".
type PresignUploadRequest struct {
	Target string `json:"target"`
}

type PresignUploadResponse struct {
	Key         string    `json:"key"`
	PutURL      string    `json:"putUrl"`
	DurableURL  string    `json:"durableUrl"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type PresignGetRequest struct {
	Key string `json:"key"`
}

type PresignGetResponse struct {
	URL string `json:"url"`
}

type ClaimTaskRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Status    string `json:"status,omitempty"`
	ClaimedBy string `json:"claimedBy"`
}

type ClaimTaskResponse struct {
	Claim journal.TaskClaim `json:"claim"`
}

type ListClaimsRequest struct{}

type ListClaimsResponse struct {
	Claims []journal.TaskClaim `json:"claims"`
}

type UnlockRequest struct {
	Role string `json:"role"`
	Pin  string `json:"pin"`
}

type UnlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PurgeRequest struct {
	Pin          string `json:"pin"`
	Confirmation string `json:"confirmation"`
}

type PurgeResponse struct {
	Deleted int `json:"deleted"`
}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	Profile journal.Profile `json:"profile"`
}

type SaveProfileRequest struct {
	Profile journal.Profile `json:"profile"`
}

type SaveProfileResponse struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
