package cutter

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/digicollect/server/internal/models"
)

// FFmpegRenderer trims media by shelling out to ffmpeg. It copies streams
// without re-encoding; quality decisions belong to the external tool.
type FFmpegRenderer struct {
	binary string
	outDir string
}

// NewFFmpegRenderer creates a renderer using the given ffmpeg binary and
// output directory. An empty binary defaults to "ffmpeg" on PATH.
func NewFFmpegRenderer(binary, outDir string) *FFmpegRenderer {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegRenderer{binary: binary, outDir: outDir}
}

// Available checks whether the ffmpeg binary can be found
func (r *FFmpegRenderer) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

func (r *FFmpegRenderer) RenderClip(ctx context.Context, sourceRef string, clip models.ClipResult) (string, error) {
	tr, ok := clip.Spec.(models.TimeRange)
	if !ok {
		return "", &RenderError{Stage: "arguments", Cause: fmt.Errorf("ffmpeg renderer needs a time range, got %s", clip.Spec.SpecKind())}
	}

	ext := ".mp4"
	if clip.Item.Kind != models.KindVideo {
		ext = ".m4a"
	}
	outPath := filepath.Join(r.outDir, uuid.New().String()+ext)

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(tr.Start),
		"-to", formatSeconds(tr.End),
		"-i", sourceRef,
		"-c", "copy",
		"-y", outPath,
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &RenderError{Stage: "ffmpeg", Cause: fmt.Errorf("%w: %s", err, lastLine(output))}
	}

	return outPath, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
