package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	// ErrFiltered reports that the provider withheld the image for content
	// policy reasons. Callers treat it as a warning, not a failure.
	ErrFiltered = errors.New("image generation was filtered")
	ErrNoImage  = errors.New("no image artifact returned")
)

// ErrGeneration reports an artifact the provider marked as failed.
var ErrGeneration = errors.New("image generation failed")

// FinishReason tags each artifact with why generation stopped.
type FinishReason string

const (
	FinishSuccess  FinishReason = "SUCCESS"
	FinishFiltered FinishReason = "CONTENT_FILTERED"
	FinishError    FinishReason = "ERROR"
)

// Request describes one text-to-image call.
type Request struct {
	Prompt  string
	Width   int
	Height  int
	Samples int
}

// Artifact is one unit of output from a generation call.
type Artifact struct {
	Base64       string       `json:"base64"`
	Seed         int64        `json:"seed"`
	FinishReason FinishReason `json:"finishReason"`
}

// Generator issues a single image-generation call.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Artifact, error)
}

// Image is a decoded, verified image. Seed reproduces it with the same prompt.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
	Seed     int64
}

// FirstImage returns the first successful artifact as an image. Any filtered
// artifact yields ErrFiltered so the caller can show a warning instead. With
// no usable image, an ERROR artifact yields ErrGeneration, else ErrNoImage.
func FirstImage(artifacts []Artifact) (*Image, error) {
	for _, a := range artifacts {
		if a.FinishReason == FinishFiltered {
			return nil, ErrFiltered
		}
	}
	for _, a := range artifacts {
		if a.FinishReason != FinishSuccess || a.Base64 == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(a.Base64)
		if err != nil {
			return nil, fmt.Errorf("decode artifact: %w", err)
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("artifact is not an image: %w", err)
		}
		return &Image{
			Data:     data,
			MIMEType: "image/" + format,
			Width:    cfg.Width,
			Height:   cfg.Height,
			Seed:     a.Seed,
		}, nil
	}
	for _, a := range artifacts {
		if a.FinishReason == FinishError {
			return nil, fmt.Errorf("%w (seed %d)", ErrGeneration, a.Seed)
		}
	}
	return nil, ErrNoImage
}
