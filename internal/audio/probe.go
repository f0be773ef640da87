package audio

import (
	"bytes"
	"errors"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnknownDuration means ffprobe could not read the file; callers
// fall back to a configured default length.
var ErrUnknownDuration = errors.New("audio duration unknown")

// ProbeDuration asks ffprobe for the length of the file in whole
// seconds. Any failure (missing binary, unreadable file, nonsense
// output) collapses into ErrUnknownDuration.
func ProbeDuration(path string) (int, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, ErrUnknownDuration
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil || secs <= 0 {
		return 0, ErrUnknownDuration
	}
	return int(secs + 0.5), nil
}
