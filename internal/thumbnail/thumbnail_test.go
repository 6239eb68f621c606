package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, w, h int, asPNG bool) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	if asPNG {
		require.NoError(t, png.Encode(&buf, img))
	} else {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}

	path := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	return path
}

func TestKey(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("abcdef01-2345-6789-abcd-ef0123456789")
	require.Equal(t, "abcdef01-2345-6789-abcd-ef0123456789_480.jpg", Key(id, 480))
}

func TestRender_WidthsAndAspect(t *testing.T) {
	t.Parallel()

	src := writeImage(t, 1200, 600, false)
	id := uuid.New()

	thumbs, err := New(85).Render(context.Background(), src, id, []int{240, 480, 960})
	require.NoError(t, err)
	require.Len(t, thumbs, 3)

	for i, w := range []int{240, 480, 960} {
		require.Equal(t, w, thumbs[i].Width)
		require.Equal(t, w/2, thumbs[i].Height)
		require.Equal(t, Key(id, w), thumbs[i].Key)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(thumbs[i].Data))
		require.NoError(t, err)
		require.Equal(t, "jpeg", format)
		require.Equal(t, w, cfg.Width)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	src := writeImage(t, 800, 533, true)
	id := uuid.New()
	r := New(85)

	first, err := r.Render(context.Background(), src, id, []int{240, 480})
	require.NoError(t, err)
	second, err := r.Render(context.Background(), src, id, []int{240, 480})
	require.NoError(t, err)

	for i := range first {
		require.Equal(t, first[i].Data, second[i].Data)
	}
}

func TestRender_NoUpscale(t *testing.T) {
	t.Parallel()

	src := writeImage(t, 300, 200, false)
	id := uuid.New()

	thumbs, err := New(85).Render(context.Background(), src, id, []int{240, 960})
	require.NoError(t, err)
	require.Equal(t, 240, thumbs[0].Width)
	require.Equal(t, 300, thumbs[1].Width)
	require.Equal(t, Key(id, 960), thumbs[1].Key)
}

func TestRender_DecodeError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o600))

	_, err := New(85).Render(context.Background(), path, uuid.New(), []int{240})
	require.ErrorIs(t, err, ErrDecode)
}

func TestRender_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := New(85).Render(context.Background(), filepath.Join(t.TempDir(), "none"), uuid.New(), []int{240})
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NotErrorIs(t, err, ErrDecode)
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	src := writeImage(t, 100, 100, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(85).Render(ctx, src, uuid.New(), []int{50})
	require.ErrorIs(t, err, context.Canceled)
}
