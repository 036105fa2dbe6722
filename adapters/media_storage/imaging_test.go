package media_storage

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
)

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCenterCrop(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 250, 200), centerCrop(image.Rect(0, 0, 300, 200), 1, 1))
	assert.Equal(t, image.Rect(0, 30, 320, 130), centerCrop(image.Rect(0, 0, 320, 160), 1280, 400))
}

func TestPrepareImage(t *testing.T) {
	cases := []struct {
		kind       profile.ImageKind
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{profile.ImageProfile, 300, 200, 400, 400},
		{profile.ImageCover, 500, 500, 1280, 400},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			out, err := PrepareImage(tc.kind, pngBytes(t, tc.srcW, tc.srcH))
			require.NoError(t, err)

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, tc.wantW, cfg.Width)
			assert.Equal(t, tc.wantH, cfg.Height)
		})
	}
}

func TestPrepareImage_Rejects(t *testing.T) {
	_, err := PrepareImage(profile.ImageProfile, []byte("not an image"))
	assert.Error(t, err)

	_, err = PrepareImage("banner", pngBytes(t, 10, 10))
	assert.Error(t, err)
}

// pngWithHeaderSize encodes a 1x1 PNG and rewrites its IHDR to claim w x h.
func pngWithHeaderSize(t *testing.T, w, h uint32) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	b := buf.Bytes()
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestPrepareImage_RejectsOversizedDimensions(t *testing.T) {
	data := pngWithHeaderSize(t, 20000, 20000)
	require.Less(t, len(data), profile.MaxImageBytes)

	_, err := PrepareImage(profile.ImageProfile, data)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Contains(t, err.Error(), "20000x20000")
}
