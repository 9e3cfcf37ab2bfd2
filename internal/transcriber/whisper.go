package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"go.uber.org/zap"
)

// WhisperEngine transcribes audio through a local whisper.cpp binary.
//
// Resolving the binary and model file is done once per process and shared
// read-only by all concurrent runs; the engine never reloads per call. A
// stuck decode is bounded by the configured timeout, not retried.
type WhisperEngine struct {
	cfg config.WhisperConfig

	initOnce sync.Once
	initErr  error
	binary   string
}

func NewWhisperEngine(cfg config.WhisperConfig) *WhisperEngine {
	return &WhisperEngine{cfg: cfg}
}

var _ domain.Transcriber = (*WhisperEngine)(nil)

// init resolves the binary path and checks the model file. Safe for
// concurrent use; runs at most once.
func (e *WhisperEngine) init() error {
	e.initOnce.Do(func() {
		binary, err := exec.LookPath(e.cfg.BinaryPath)
		if err != nil {
			e.initErr = fmt.Errorf("whisper binary not found: %w", err)
			return
		}
		if e.cfg.ModelPath == "" {
			e.initErr = fmt.Errorf("whisper model path is not configured")
			return
		}
		if _, err := os.Stat(e.cfg.ModelPath); err != nil {
			e.initErr = fmt.Errorf("whisper model not readable: %w", err)
			return
		}
		e.binary = binary
		logger.Get().Info("whisper engine initialized",
			zap.String("binary", binary), zap.String("model", e.cfg.ModelPath))
	})
	return e.initErr
}

// Transcribe converts a scratch audio file into plain text.
func (e *WhisperEngine) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := e.init(); err != nil {
		return "", domain.NewTranscriptionError(err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	args := []string{
		"-m", e.cfg.ModelPath,
		"-f", audioPath,
		"--no-timestamps",
	}
	if e.cfg.Language != "" {
		args = append(args, "--language", e.cfg.Language)
	}

	cmd := exec.CommandContext(runCtx, e.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", domain.NewTranscriptionError(fmt.Errorf("whisper: %w - %s", err, stderr.String()))
	}

	transcript := strings.TrimSpace(stdout.String())
	if transcript == "" {
		return "", domain.NewTranscriptionError(fmt.Errorf("empty transcript for %s", audioPath))
	}
	return transcript, nil
}
