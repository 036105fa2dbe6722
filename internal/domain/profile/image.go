package profile

import "fmt"

type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageCover   ImageKind = "cover"
)

const (
	MaxImageBytes = 32 << 20
	// MaxImagePixels bounds width*height before a full decode.
	MaxImagePixels = 40_000_000
	JPEGQuality    = 85
)

// ImageSpec is the final pixel size an uploaded image is cropped and scaled to.
type ImageSpec struct {
	Width  int
	Height int
}

var imageSpecs = map[ImageKind]ImageSpec{
	ImageProfile: {Width: 400, Height: 400},
	ImageCover:   {Width: 1280, Height: 400},
}

func SpecFor(kind ImageKind) (ImageSpec, error) {
	spec, ok := imageSpecs[kind]
	if !ok {
		return ImageSpec{}, fmt.Errorf("unknown image kind %q", kind)
	}
	return spec, nil
}
