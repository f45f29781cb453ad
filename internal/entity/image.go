package entity

import "time"

type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusProcessing ItemStatus = "processing"
	StatusDone       ItemStatus = "done"
	StatusError      ItemStatus = "error"
)

// CreditInfo carries the usage-accounting headers returned by the
// background-removal provider. Informational only.
type CreditInfo struct {
	Remaining string `json:"remaining,omitempty"`
	Charged   string `json:"charged,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Upload is one file received from a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// QueueItem is one image waiting for (or processed by) background removal.
// Result and ErrorMessage are mutually exclusive; the queue's transition
// methods are the only writers.
type QueueItem struct {
	ID           string
	Filename     string
	Source       []byte
	Preview      []byte
	Status       ItemStatus
	Result       []byte
	ErrorMessage string
	ErrorCode    string
	Credits      CreditInfo
	CreatedAt    time.Time
}

type QueueItemResponse struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	Status     ItemStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	ErrorCode  string     `json:"error_code,omitempty"`
	Credits    CreditInfo `json:"credits"`
	HasResult  bool       `json:"has_result"`
	HasPreview bool       `json:"has_preview"`
	CreatedAt  time.Time  `json:"created_at"`
}

type QueueResponse struct {
	Items  []QueueItemResponse `json:"items"`
	Active string              `json:"active,omitempty"`
}

type EnqueueResponse struct {
	Added []QueueItemResponse `json:"added"`
}

type CompressionResult struct {
	Data           []byte
	MimeType       string
	Filename       string
	OriginalSize   int
	CompressedSize int
}
