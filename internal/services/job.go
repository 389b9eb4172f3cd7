package services

import (
	"context"
	"errors"
	"log"
	"os"
	"runtime/debug"

	"github.com/google/uuid"

	"circlenote-bot/internal/chat"
	"circlenote-bot/internal/workspace"
)

// User-facing status texts. The in-flight status message always ends on one
// of these, never on the "processing" text.
const (
	msgProcessing = "Got your video, making the circle... 🔄"
	msgSuccess    = "Done! Here is your circle 🟣"

	msgFetchRejected  = "Telegram refused to hand over that video 😕 Try sending it again."
	msgFetchTransport = "Could not download the video. Check your connection and try again."

	msgToolMissing = "Video conversion is unavailable right now 😢\nIf this keeps happening, contact the bot operator."
	msgToolTimeout = "Converting took too long and was stopped ⏱️ Try a shorter or smaller clip."
	msgToolFailed  = "Could not convert this video 😢 It may be in an unsupported format — try another clip."

	msgDeliverRejected  = "Telegram rejected the converted video. Try a different clip."
	msgDeliverServer    = "Telegram had trouble receiving the result. Try again in a minute."
	msgDeliverTransport = "Could not upload the result. Check your connection and try again."

	msgUnexpected = "Something went wrong on our side 😢 Try again later."
)

// Pipeline runs the per-message conversion job: validate → fetch → transcode
// → verify → deliver, with unconditional temp cleanup. One Process call per
// inbound video; calls are independent and safe to run concurrently.
type Pipeline struct {
	client     chat.Client
	ws         *workspace.Workspace
	transcoder *Transcoder
	limits     Limits
	stats      Stats
}

// NewPipeline wires the conversion pipeline
func NewPipeline(client chat.Client, ws *workspace.Workspace, transcoder *Transcoder, limits Limits) *Pipeline {
	return &Pipeline{
		client:     client,
		ws:         ws,
		transcoder: transcoder,
		limits:     limits,
	}
}

// Stats exposes the pipeline counters
func (p *Pipeline) Stats() *Stats {
	return &p.stats
}

// Process handles one inbound video end to end. Every failure is translated
// into an edit of the status message; nothing escapes to the caller.
func (p *Pipeline) Process(ctx context.Context, ref MediaRef, chatID int64) {
	jobID := uuid.New().String()
	p.stats.jobStarted()

	var inputPath, outputPath string
	var status chat.MessageRef
	statusPosted := false

	// Cleanup runs last on every exit path, panics included.
	defer func() {
		p.ws.Cleanup(inputPath, outputPath)
	}()

	// Job boundary: an unanticipated fault must not take down the dispatcher
	// or other jobs. The status edit here is best-effort; the message may
	// already be gone.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("💥 [job %s] panic: %v\n%s", jobID, r, debug.Stack())
			p.stats.jobFailed()
			if statusPosted {
				_ = p.client.EditMessage(status, msgUnexpected)
			}
		}
	}()

	log.Printf("🎬 [job %s] received video: file_id=%s duration=%ds size=%d chat=%d",
		jobID, ref.FileID, ref.Duration, ref.FileSize, chatID)

	var err error
	status, err = p.client.SendMessage(chatID, msgProcessing)
	if err != nil {
		// Can't talk to this chat at all; nothing further to report to.
		log.Printf("❌ [job %s] stage=status: %v", jobID, err)
		p.stats.jobFailed()
		return
	}
	statusPosted = true

	// Validating: cheap metadata checks before any I/O is spent
	if err := ValidateMedia(ref, p.limits); err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			log.Printf("🚫 [job %s] stage=validate: %v", jobID, rej)
			p.stats.jobRejected()
			p.edit(jobID, status, rej.UserMessage())
			return
		}
		p.fail(jobID, "validate", err, status, msgUnexpected)
		return
	}

	// Fetching
	inputPath, outputPath, err = p.ws.Allocate(jobID)
	if err != nil {
		p.fail(jobID, "allocate", err, status, msgUnexpected)
		return
	}

	if err := p.client.DownloadFile(ctx, ref.FileID, inputPath); err != nil {
		msg := msgFetchTransport
		if kindOf(err) == chat.ErrRejected {
			msg = msgFetchRejected
		}
		p.fail(jobID, "fetch", err, status, msg)
		return
	}
	if !fileNonEmpty(inputPath) {
		// No error was reported, but an empty file is not a usable input.
		p.fail(jobID, "fetch", errors.New("downloaded file is missing or empty"), status, msgFetchTransport)
		return
	}

	// Transcoding
	outcome := p.transcoder.Run(ctx, inputPath, outputPath)
	switch outcome.Kind {
	case OutcomeSuccess:
		// fall through to output verification
	case OutcomeBinaryNotFound:
		p.fail(jobID, "transcode", errors.New(outcome.StderrTail), status, msgToolMissing)
		return
	case OutcomeTimedOut:
		p.fail(jobID, "transcode", errors.New("killed after timeout"), status, msgToolTimeout)
		return
	default:
		log.Printf("❌ [job %s] stage=transcode: exit code %d, stderr: %s",
			jobID, outcome.ExitCode, outcome.StderrTail)
		p.stats.jobFailed()
		p.edit(jobID, status, msgToolFailed)
		return
	}

	// VerifyingOutput: exit code 0 alone is not trusted
	if !fileNonEmpty(outputPath) {
		p.fail(jobID, "verify", errors.New("output file is missing or empty"), status, msgToolFailed)
		return
	}

	// Delivering
	if err := p.client.SendVideoNote(chatID, outputPath, p.transcoder.Spec().Size); err != nil {
		var msg string
		switch kindOf(err) {
		case chat.ErrRejected:
			msg = msgDeliverRejected
		case chat.ErrServer:
			msg = msgDeliverServer
		default:
			msg = msgDeliverTransport
		}
		p.fail(jobID, "deliver", err, status, msg)
		return
	}

	p.stats.jobSucceeded()
	p.edit(jobID, status, msgSuccess)
	log.Printf("✅ [job %s] done", jobID)
}

// fail logs a failure with its stage, counts it, and reports it to the user
func (p *Pipeline) fail(jobID, stage string, err error, status chat.MessageRef, userMsg string) {
	log.Printf("❌ [job %s] stage=%s: %v", jobID, stage, err)
	p.stats.jobFailed()
	p.edit(jobID, status, userMsg)
}

// edit updates the status message; a failed edit is logged and swallowed
func (p *Pipeline) edit(jobID string, status chat.MessageRef, text string) {
	if err := p.client.EditMessage(status, text); err != nil {
		log.Printf("⚠️  [job %s] failed to edit status message: %v", jobID, err)
	}
}

// kindOf extracts the chat error category, defaulting to transport
func kindOf(err error) chat.ErrorKind {
	var ce *chat.ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return chat.ErrTransport
}

// fileNonEmpty reports whether path exists and has content
func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
