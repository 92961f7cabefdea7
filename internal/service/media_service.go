package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	instagramWidth  = 1080
	instagramHeight = 1350
	maxImageBytes   = 25 * 1024 * 1024
)

type MediaService interface {
	// Materialize resolves a schedule's media source to a local file path the
	// browser can upload. Remote URLs are downloaded and prepared for the
	// platform; local paths pass through untouched.
	Materialize(ctx context.Context, src string) (string, error)
	// Cleanup removes a file previously produced by Materialize.
	Cleanup(path string)
}

type mediaService struct {
	mediaDir   string
	httpClient *http.Client
}

func NewMediaService(mediaDir string) MediaService {
	return &mediaService{
		mediaDir: mediaDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *mediaService) Materialize(ctx context.Context, src string) (string, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return src, nil
	}

	data, err := s.download(ctx, src)
	if err != nil {
		return "", err
	}

	if !filetype.IsImage(data) {
		return "", fmt.Errorf("media source is not an image: %s", src)
	}

	prepared, err := prepareForInstagram(data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	outputPath := filepath.Join(s.mediaDir, name+".jpg")

	if err := imaging.Save(prepared, outputPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	return outputPath, nil
}

func (s *mediaService) Cleanup(path string) {
	if path == "" || !strings.HasPrefix(filepath.Clean(path), filepath.Clean(s.mediaDir)) {
		return
	}
	if err := os.Remove(path); err != nil {
		slog.Info(err.Error())
	}
}

func (s *mediaService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("download media: status %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxImageBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("media too large (>%d bytes)", maxImageBytes)
	}

	return body, nil
}

// prepareForInstagram fits the image to the platform's portrait frame, then
// applies a random crop of a few pixels and a slight brightness/saturation
// jitter so repeated uploads of the same source do not hash identically.
func prepareForInstagram(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = imaging.Fill(img, instagramWidth, instagramHeight, imaging.Center, imaging.Lanczos)

	cropWidth := rand.Intn(5) + 1
	cropHeight := rand.Intn(5) + 1
	img = imaging.Crop(img, image.Rect(cropWidth, cropHeight, instagramWidth, instagramHeight))

	// -10%..+20% matches the jitter range the uploads were tuned with.
	img = imaging.AdjustBrightness(img, rand.Float64()*30-10)
	img = imaging.AdjustSaturation(img, rand.Float64()*30-10)

	return img, nil
}
