package handlers

import (
	"os/exec"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"circlenote-bot/internal/services"
)

// HTTPHandler serves the liveness endpoint plus health and stats for
// operators. Liveness is intentionally dumb: it only proves the process has
// an open port.
type HTTPHandler struct {
	stats     *services.Stats
	ffmpegBin string
}

// NewHTTPHandler creates the HTTP handler set
func NewHTTPHandler(stats *services.Stats, ffmpegBin string) *HTTPHandler {
	return &HTTPHandler{stats: stats, ffmpegBin: ffmpegBin}
}

// Live handles GET /. The reply is a fixed 200 the orchestrator probes for.
func (h *HTTPHandler) Live(c fiber.Ctx) error {
	return c.SendString("OK")
}

// Health handles GET /api/health
func (h *HTTPHandler) Health(c fiber.Ctx) error {
	// Check ffmpeg availability
	ffmpegVersion := "unavailable"
	if output, err := exec.Command(h.ffmpegBin, "-version").Output(); err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			ffmpegVersion = strings.TrimSpace(lines[0])
		}
	}

	return c.JSON(fiber.Map{
		"status":         "healthy",
		"timestamp":      time.Now().Format(time.RFC3339),
		"ffmpeg_version": ffmpegVersion,
		"jobs":           h.stats.Snapshot(),
	})
}

// Stats handles GET /api/stats
func (h *HTTPHandler) Stats(c fiber.Ctx) error {
	return c.JSON(h.stats.Snapshot())
}
