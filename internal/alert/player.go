// Package alert emits the alert side effects: structured log lines and
// best-effort sound playback.
package alert

import (
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

// Player plays a sound cue. Implementations must never block the caller and
// must swallow failures; alerting degrades to log-only when no audio is
// available.
type Player interface {
	Play(cue string)
}

// ExecPlayer shells out to a platform sound player with the cue file path as
// its argument.
type ExecPlayer struct {
	soundDir string

	once sync.Once
	bin  string
}

// NewExecPlayer creates a player resolving cue names against soundDir.
func NewExecPlayer(soundDir string) *ExecPlayer {
	return &ExecPlayer{soundDir: soundDir}
}

// Play spawns the player in the background. Missing binaries and playback
// failures are logged at debug and otherwise ignored.
func (p *ExecPlayer) Play(cue string) {
	p.once.Do(p.findPlayer)

	if p.bin == "" || cue == "" {
		return
	}

	path := filepath.Join(p.soundDir, cue)
	go func() {
		if err := exec.Command(p.bin, path).Run(); err != nil {
			slog.Debug("sound_play_failed", "cue", cue, "error", err)
		}
	}()
}

// findPlayer locates a usable player binary for the current platform.
func (p *ExecPlayer) findPlayer() {
	var candidates []string
	if runtime.GOOS == "darwin" {
		candidates = []string{"afplay"}
	} else {
		candidates = []string{"paplay", "aplay", "mpg123", "play"}
	}

	for _, c := range candidates {
		if bin, err := exec.LookPath(c); err == nil {
			p.bin = bin
			return
		}
	}

	slog.Debug("no_sound_player_found", "candidates", candidates)
}

// NopPlayer discards all cues. Used when audio is disabled and in tests.
type NopPlayer struct{}

// Play implements Player.
func (NopPlayer) Play(string) {}
