package tasks

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"artfolio/backend/common"
)

// Result is the outcome of a finished background job.
type Result struct {
	OK     bool
	Stdout string
	Stderr string
	Err    error
}

// Handle lets callers wait for a job without blocking the upload path.
type Handle struct {
	done   chan struct{}
	result Result
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result blocks until the job finishes.
func (h *Handle) Result() Result {
	<-h.done
	return h.result
}

// Runner executes external tools (virus scanner, transcoder) with hard
// timeouts. Binaries are fields so tests can substitute stand-ins.
type Runner struct {
	ScanTimeout      time.Duration
	TranscodeTimeout time.Duration
	ClamscanBin      string
	FFmpegBin        string
}

func NewRunner() *Runner {
	return &Runner{
		ScanTimeout:      120 * time.Second,
		TranscodeTimeout: 600 * time.Second,
		ClamscanBin:      "clamscan",
		FFmpegBin:        "ffmpeg",
	}
}

func (r *Runner) submit(timeout time.Duration, bin string, args ...string) *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, bin, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err := cmd.Run()

		h.result = Result{
			OK:     err == nil,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
		if ctx.Err() == context.DeadlineExceeded {
			h.result.OK = false
			h.result.Err = fmt.Errorf("%s timed out after %s", bin, timeout)
		}
	}()
	return h
}

// ScanFile runs the virus scanner against a stored file. The result is
// clean unless the scanner reported an infection.
func (r *Runner) ScanFile(path string) *Handle {
	h := r.submit(r.ScanTimeout, r.ClamscanBin, "--no-summary", path)
	wrapped := &Handle{done: make(chan struct{})}
	go func() {
		defer close(wrapped.done)
		res := h.Result()
		// clamscan exits 1 on infections; judge by the report text so a
		// missing database does not flag every file.
		output := res.Stdout + res.Stderr
		infected := strings.Contains(output, "FOUND") && !strings.Contains(output, "OK")
		res.OK = !infected
		if infected {
			common.SysError(fmt.Sprintf("virus scanner flagged %s", path))
		}
		wrapped.result = res
	}()
	return wrapped
}

// TranscodeVideo rewrites a video as faststart H.264/AAC MP4.
func (r *Runner) TranscodeVideo(inPath string, outPath string) *Handle {
	return r.submit(r.TranscodeTimeout, r.FFmpegBin,
		"-y", "-i", inPath,
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k",
		"-movflags", "+faststart",
		outPath,
	)
}

// TranscodeAudio rewrites an audio file as VBR MP3.
func (r *Runner) TranscodeAudio(inPath string, outPath string) *Handle {
	return r.submit(r.TranscodeTimeout, r.FFmpegBin,
		"-y", "-i", inPath,
		"-codec:a", "libmp3lame", "-qscale:a", "2",
		outPath,
	)
}
