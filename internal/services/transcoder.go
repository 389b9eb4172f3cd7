package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// Fit policies for squeezing an arbitrary aspect ratio into the square
const (
	FitPad  = "pad"  // letterbox, keeps the whole frame
	FitCrop = "crop" // fills the square, trims the edges
)

// stderrTailSize bounds how much ffmpeg stderr is kept for diagnostics
const stderrTailSize = 400

// TranscodeSpec is the process-wide conversion configuration, read-only after
// startup.
type TranscodeSpec struct {
	Binary       string // ffmpeg binary name or path
	Size         int    // target square dimension
	Fit          string // FitPad or FitCrop
	Preset       string // libx264 preset
	KeepAudio    bool
	AudioBitrate string // used only when KeepAudio
	Timeout      time.Duration
}

// OutcomeKind tags how an external conversion run ended
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeBinaryNotFound
	OutcomeTimedOut
	OutcomeExitError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeBinaryNotFound:
		return "binary_not_found"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "exit_error"
	}
}

// Outcome is the classified result of one conversion run. ExitCode and
// StderrTail are only meaningful for OutcomeExitError.
type Outcome struct {
	Kind       OutcomeKind
	ExitCode   int
	StderrTail string
}

// Transcoder builds ffmpeg invocations from a spec and supervises them
type Transcoder struct {
	spec TranscodeSpec
}

// NewTranscoder creates a transcoder for the given spec
func NewTranscoder(spec TranscodeSpec) *Transcoder {
	if spec.Timeout <= 0 {
		spec.Timeout = 2 * time.Minute
	}
	if spec.Binary == "" {
		spec.Binary = "ffmpeg"
	}
	return &Transcoder{spec: spec}
}

// Spec returns the active conversion configuration
func (t *Transcoder) Spec() TranscodeSpec {
	return t.spec
}

// BuildArgs constructs the full ffmpeg argument vector for one conversion.
// Deterministic for a given spec, so tests can assert on it directly.
func (t *Transcoder) BuildArgs(inputPath, outputPath string) []string {
	s := t.spec

	var filter string
	if s.Fit == FitCrop {
		filter = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
			s.Size, s.Size, s.Size, s.Size)
	} else {
		filter = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			s.Size, s.Size, s.Size, s.Size)
	}

	args := []string{
		"-y", // overwrite
		"-i", inputPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", s.Preset,
		"-movflags", "+faststart",
	}

	if s.KeepAudio {
		args = append(args, "-c:a", "aac", "-b:a", s.AudioBitrate)
	} else {
		args = append(args, "-an")
	}

	return append(args, outputPath)
}

// Run executes one conversion and classifies the result. On timeout the child
// process is killed; stdout is discarded and stderr captured. A zero exit
// code alone is not proof of a usable artifact; callers verify the output
// file themselves.
func (t *Transcoder) Run(ctx context.Context, inputPath, outputPath string) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, t.spec.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, t.spec.Binary, t.BuildArgs(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr
	// Don't let Wait hang on stderr held open by a stray child after the
	// kill signal.
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()
	if err == nil {
		return Outcome{Kind: OutcomeSuccess}
	}

	// Launch failure (binary missing or not executable) is a configuration
	// fault, distinct from a run that started and went wrong. PATH lookup
	// failures surface as *exec.Error, explicit paths as fs.ErrNotExist.
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
		return Outcome{Kind: OutcomeBinaryNotFound, StderrTail: err.Error()}
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return Outcome{Kind: OutcomeTimedOut}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Outcome{
			Kind:       OutcomeExitError,
			ExitCode:   exitErr.ExitCode(),
			StderrTail: tail(stderr.Bytes(), stderrTailSize),
		}
	}

	return Outcome{Kind: OutcomeExitError, ExitCode: -1, StderrTail: err.Error()}
}

// tail returns at most n trailing bytes of b as a string
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
