package media_storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register gif
	"image/jpeg"
	_ "image/png" // register png

	"golang.org/x/image/draw"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
)

// centerCrop returns the largest rectangle of src's bounds with the aspect ratio
// w:h, centered.
func centerCrop(b image.Rectangle, w, h int) image.Rectangle {
	srcW, srcH := b.Dx(), b.Dy()
	cropW, cropH := srcW, srcW*h/w
	if cropH > srcH {
		cropW, cropH = srcH*w/h, srcH
	}
	x0 := b.Min.X + (srcW-cropW)/2
	y0 := b.Min.Y + (srcH-cropH)/2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

// PrepareImage decodes data, crops it to the aspect ratio of kind, scales it to the
// target size and re-encodes it as JPEG.
func PrepareImage(kind profile.ImageKind, data []byte) ([]byte, error) {
	spec, err := profile.SpecFor(kind)
	if err != nil {
		return nil, err
	}
	if len(data) > profile.MaxImageBytes {
		return nil, fmt.Errorf("image is larger than %d bytes", profile.MaxImageBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.NewInvalidInput("failed to decode image", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperror.NewInvalidInput("image has no pixels", nil)
	}
	if cfg.Width > profile.MaxImagePixels/cfg.Height {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image is %dx%d, more than %d pixels", cfg.Width, cfg.Height, profile.MaxImagePixels), nil)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	dst := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, centerCrop(src.Bounds(), spec.Width, spec.Height), draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: profile.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}
