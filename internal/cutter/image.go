package cutter

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/digicollect/server/internal/models"
)

// ImageRenderer downloads the source image and crops it to the clip's
// rectangle, saving the result as JPEG.
type ImageRenderer struct {
	client *http.Client
	outDir string
}

// NewImageRenderer creates a new ImageRenderer
func NewImageRenderer(client *http.Client, outDir string) *ImageRenderer {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageRenderer{client: client, outDir: outDir}
}

func (r *ImageRenderer) RenderClip(ctx context.Context, sourceRef string, clip models.ClipResult) (string, error) {
	rect, ok := clip.Spec.(models.CropRect)
	if !ok {
		return "", &RenderError{Stage: "arguments", Cause: fmt.Errorf("image renderer needs a crop rect, got %s", clip.Spec.SpecKind())}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceRef, nil)
	if err != nil {
		return "", &RenderError{Stage: "download", Cause: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", &RenderError{Stage: "download", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &RenderError{Stage: "download", Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	src, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", &RenderError{Stage: "decode", Cause: err}
	}

	cropped := imaging.Crop(src, image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))

	outPath := filepath.Join(r.outDir, uuid.New().String()+".jpg")
	if err := imaging.Save(cropped, outPath, imaging.JPEGQuality(90)); err != nil {
		return "", &RenderError{Stage: "save", Cause: err}
	}

	return outPath, nil
}
