package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateMedia(t *testing.T) {
	limits := Limits{MaxDuration: 90, MaxFileSize: 20 * 1024 * 1024}

	tests := []struct {
		name string
		ref  MediaRef
		want RejectKind
		ok   bool
	}{
		{"within limits", MediaRef{Duration: 30, FileSize: 5 * 1024 * 1024}, 0, true},
		{"exactly at limits", MediaRef{Duration: 90, FileSize: 20 * 1024 * 1024}, 0, true},
		{"too long", MediaRef{Duration: 120, FileSize: 1024}, RejectTooLong, false},
		{"too large", MediaRef{Duration: 30, FileSize: 21 * 1024 * 1024}, RejectTooLarge, false},
		{"both over, duration wins", MediaRef{Duration: 120, FileSize: 21 * 1024 * 1024}, RejectTooLong, false},
		{"unknown duration skipped", MediaRef{Duration: 0, FileSize: 1024}, 0, true},
		{"unknown size skipped", MediaRef{Duration: 30, FileSize: 0}, 0, true},
		{"no metadata at all", MediaRef{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMedia(tt.ref, limits)
			if tt.ok {
				if err != nil {
					t.Fatalf("expected pass, got %v", err)
				}
				return
			}
			var rej *RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("expected RejectionError, got %v", err)
			}
			if rej.Kind != tt.want {
				t.Errorf("kind = %v, want %v", rej.Kind, tt.want)
			}
		})
	}
}

func TestRejectionMessagesContainValues(t *testing.T) {
	err := ValidateMedia(MediaRef{Duration: 120}, Limits{MaxDuration: 90, MaxFileSize: 1 << 30})
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}

	msg := rej.UserMessage()
	if !strings.Contains(msg, "120") || !strings.Contains(msg, "90") {
		t.Errorf("rejection message missing actual/max values: %q", msg)
	}
}

func TestRejectionSizeMessageInMB(t *testing.T) {
	err := ValidateMedia(
		MediaRef{FileSize: 30 * 1024 * 1024},
		Limits{MaxDuration: 90, MaxFileSize: 20 * 1024 * 1024},
	)
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}

	msg := rej.UserMessage()
	if !strings.Contains(msg, "30.0") || !strings.Contains(msg, "20.0") {
		t.Errorf("size rejection message missing MB values: %q", msg)
	}
}
