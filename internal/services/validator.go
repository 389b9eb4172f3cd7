package services

import "fmt"

// MediaRef describes an inbound video by its Telegram metadata. All fields
// besides FileID are declared by the sender's client and may be zero/unknown.
type MediaRef struct {
	FileID   string
	Duration int   // seconds, 0 if unknown
	FileSize int64 // bytes, 0 if unknown
	MimeType string
}

// Limits holds the configured ceilings for inbound media
type Limits struct {
	MaxDuration int   // seconds
	MaxFileSize int64 // bytes
}

// RejectKind says which limit an inbound video exceeded
type RejectKind int

const (
	RejectTooLong RejectKind = iota
	RejectTooLarge
)

// RejectionError reports an over-limit video together with the actual and
// allowed values, so the user sees concrete numbers.
type RejectionError struct {
	Kind   RejectKind
	Actual int64
	Limit  int64
}

func (e *RejectionError) Error() string {
	switch e.Kind {
	case RejectTooLong:
		return fmt.Sprintf("video too long: %d seconds (max %d)", e.Actual, e.Limit)
	default:
		return fmt.Sprintf("video too large: %d bytes (max %d)", e.Actual, e.Limit)
	}
}

// UserMessage renders the rejection for the chat
func (e *RejectionError) UserMessage() string {
	switch e.Kind {
	case RejectTooLong:
		return fmt.Sprintf("The video is too long (%d sec). Maximum duration is %d seconds ⏱️", e.Actual, e.Limit)
	default:
		return fmt.Sprintf("The video is too large (%.1f MB). Maximum size is %.1f MB 📦",
			float64(e.Actual)/(1024*1024), float64(e.Limit)/(1024*1024))
	}
}

// ValidateMedia checks declared duration and size against the limits before
// any bytes are downloaded. A missing value skips its check: the metadata is
// trusted when present but not required.
func ValidateMedia(ref MediaRef, limits Limits) error {
	if ref.Duration > 0 && ref.Duration > limits.MaxDuration {
		return &RejectionError{Kind: RejectTooLong, Actual: int64(ref.Duration), Limit: int64(limits.MaxDuration)}
	}
	if ref.FileSize > 0 && ref.FileSize > limits.MaxFileSize {
		return &RejectionError{Kind: RejectTooLarge, Actual: ref.FileSize, Limit: limits.MaxFileSize}
	}
	return nil
}
