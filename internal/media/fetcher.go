package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"
	"vidquiz/internal/util"

	"go.uber.org/zap"
)

// YtdlpFetcher acquires audio through the yt-dlp binary. Each run downloads
// into a scratch file named by a run-scoped ULID, so concurrent runs cannot
// collide.
type YtdlpFetcher struct {
	cfg config.MediaConfig
}

func NewYtdlpFetcher(cfg config.MediaConfig) *YtdlpFetcher {
	return &YtdlpFetcher{cfg: cfg}
}

var _ domain.AudioFetcher = (*YtdlpFetcher)(nil)

// Fetch probes the video for availability, then downloads the best audio
// track. Ownership of the returned artifact's cleanup transfers to the
// caller via Release.
func (f *YtdlpFetcher) Fetch(ctx context.Context, url string) (*domain.AudioArtifact, error) {
	if err := f.probe(ctx, url); err != nil {
		return nil, domain.NewVideoUnavailableError(url, err)
	}

	if err := os.MkdirAll(f.cfg.ScratchDir, 0o755); err != nil {
		return nil, domain.NewAudioDownloadFailedError(fmt.Errorf("create scratch dir: %w", err))
	}

	token := util.NewULID()
	// yt-dlp substitutes %(ext)s with the container it actually produced.
	outTemplate := filepath.Join(f.cfg.ScratchDir, "audio_"+token+".%(ext)s")

	dlCtx, cancel := context.WithTimeout(ctx, f.cfg.DownloadTimeout)
	defer cancel()

	args := []string{
		"--format", "bestaudio/best",
		"--output", outTemplate,
		"--no-playlist",
		"--quiet",
	}
	args = append(args, f.hostWorkarounds()...)
	args = append(args, url)

	cmd := exec.CommandContext(dlCtx, f.cfg.YtdlpPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, domain.NewAudioDownloadFailedError(fmt.Errorf("yt-dlp: %w - %s", err, out))
	}

	matches, err := filepath.Glob(filepath.Join(f.cfg.ScratchDir, "audio_"+token+".*"))
	if err != nil || len(matches) == 0 {
		return nil, domain.NewAudioDownloadFailedError(fmt.Errorf("downloaded audio file not found for token %s", token))
	}

	path := matches[0]
	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Get().Warn("failed to remove scratch audio file",
					zap.String("path", path), zap.Error(err))
			}
		})
	}

	logger.Get().Debug("audio acquired",
		zap.String("url", url), zap.String("path", path), zap.String("token", token))

	return &domain.AudioArtifact{Token: token, Path: path, Release: release}, nil
}

// probe asks the host for metadata without downloading anything.
func (f *YtdlpFetcher) probe(ctx context.Context, url string) error {
	probeCtx, cancel := context.WithTimeout(ctx, f.cfg.ProbeTimeout)
	defer cancel()

	args := []string{"--skip-download", "--no-warnings", "--quiet", "--print", "id"}
	args = append(args, f.hostWorkarounds()...)
	args = append(args, url)

	cmd := exec.CommandContext(probeCtx, f.cfg.YtdlpPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("yt-dlp probe: %w - %s", err, out)
	}
	return nil
}

// hostWorkarounds returns configured flags that bypass anti-bot or format
// restrictions. Deployment configuration, not pipeline logic.
func (f *YtdlpFetcher) hostWorkarounds() []string {
	var args []string
	if f.cfg.CookieFile != "" {
		args = append(args, "--cookies", f.cfg.CookieFile)
	}
	if f.cfg.PlayerClient != "" {
		args = append(args, "--extractor-args", "youtube:player_client="+f.cfg.PlayerClient)
	}
	return args
}
