package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"BOT_TOKEN", "VIDEO_MAX_DURATION", "VIDEO_MAX_SIZE", "FFMPEG_BIN",
		"TEMP_DIR", "PORT", "VIDEO_SIZE", "VIDEO_FIT", "KEEP_AUDIO",
		"TRANSCODE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.MaxDuration != 90 {
		t.Errorf("MaxDuration = %d, want 90", cfg.MaxDuration)
	}
	if cfg.MaxFileSize != 20*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 20MB", cfg.MaxFileSize)
	}
	if cfg.FFmpegBin != "ffmpeg" {
		t.Errorf("FFmpegBin = %q, want ffmpeg", cfg.FFmpegBin)
	}
	if cfg.TempDir != "tmp" {
		t.Errorf("TempDir = %q, want tmp", cfg.TempDir)
	}
	if cfg.Port != "10000" {
		t.Errorf("Port = %q, want 10000", cfg.Port)
	}
	if cfg.VideoSize != 720 {
		t.Errorf("VideoSize = %d, want 720", cfg.VideoSize)
	}
	if cfg.VideoFit != "pad" {
		t.Errorf("VideoFit = %q, want pad", cfg.VideoFit)
	}
	if cfg.KeepAudio {
		t.Error("KeepAudio should default to false")
	}
	if cfg.TranscodeTimeout != 2*time.Minute {
		t.Errorf("TranscodeTimeout = %v, want 2m", cfg.TranscodeTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("VIDEO_MAX_DURATION", "60")
	t.Setenv("VIDEO_MAX_SIZE", "1048576")
	t.Setenv("VIDEO_FIT", "crop")
	t.Setenv("KEEP_AUDIO", "true")
	t.Setenv("TRANSCODE_TIMEOUT", "30s")

	cfg := Load()

	if cfg.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.MaxDuration != 60 {
		t.Errorf("MaxDuration = %d, want 60", cfg.MaxDuration)
	}
	if cfg.MaxFileSize != 1048576 {
		t.Errorf("MaxFileSize = %d, want 1048576", cfg.MaxFileSize)
	}
	if cfg.VideoFit != "crop" {
		t.Errorf("VideoFit = %q, want crop", cfg.VideoFit)
	}
	if !cfg.KeepAudio {
		t.Error("KeepAudio = false, want true")
	}
	if cfg.TranscodeTimeout != 30*time.Second {
		t.Errorf("TranscodeTimeout = %v, want 30s", cfg.TranscodeTimeout)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("VIDEO_MAX_DURATION", "not-a-number")
	t.Setenv("KEEP_AUDIO", "definitely")
	t.Setenv("TRANSCODE_TIMEOUT", "forever")

	cfg := Load()

	if cfg.MaxDuration != 90 {
		t.Errorf("MaxDuration = %d, want default 90", cfg.MaxDuration)
	}
	if cfg.KeepAudio {
		t.Error("KeepAudio should fall back to false")
	}
	if cfg.TranscodeTimeout != 2*time.Minute {
		t.Errorf("TranscodeTimeout = %v, want default 2m", cfg.TranscodeTimeout)
	}
}
