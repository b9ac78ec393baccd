package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

// CommandRecorder captures audio by running a local capture command such as
// arecord. The configured argv is extended with the capture duration and the
// output path, so any tool with an arecord-compatible invocation works.
type CommandRecorder struct {
	argv   []string
	logger *slog.Logger
}

// NewCommandRecorder creates a recorder around the given capture command.
func NewCommandRecorder(argv []string, logger *slog.Logger) (*CommandRecorder, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("speech: capture command must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandRecorder{argv: argv, logger: logger}, nil
}

// Record captures up to seconds of audio into a temp WAV file and returns
// its path. The caller removes the file when done with it.
func (r *CommandRecorder) Record(ctx context.Context, seconds int) (string, error) {
	if seconds < 1 {
		return "", fmt.Errorf("speech: capture duration must be at least 1s, got %d", seconds)
	}

	f, err := os.CreateTemp("", "luma-capture-*.wav")
	if err != nil {
		return "", fmt.Errorf("speech: create capture file: %w", err)
	}
	path := f.Name()
	f.Close()

	args := append([]string{}, r.argv[1:]...)
	args = append(args, "-d", strconv.Itoa(seconds), path)

	r.logger.Debug("capturing audio", "command", r.argv[0], "seconds", seconds)

	cmd := exec.CommandContext(ctx, r.argv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("speech: capture command failed: %w: %s", err, string(out))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("speech: capture produced no file: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return "", fmt.Errorf("speech: capture produced an empty file")
	}
	return path, nil
}

var _ Recorder = (*CommandRecorder)(nil)
