// thumbnail строит превью фиксированной ширины из локального исходника.
//
// Результат детерминирован: один и тот же исходник при одной и той же версии
// nfnt/resize даёт побайтно одинаковые JPEG, поэтому повторная публикация под
// тем же ключом ничего не меняет.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// ContentType превью в served-бакете.
const ContentType = "image/jpeg"

// ErrDecode — исходник не является поддерживаемым изображением.
var ErrDecode = errors.New("image decode failed")

// Thumbnail — одно превью.
type Thumbnail struct {
	Width  int
	Height int
	Key    string
	Data   []byte
}

// Renderer кодирует превью в JPEG с заданным качеством.
type Renderer struct {
	quality int
}

// New создаёт Renderer. quality вне [1..100] заменяется на jpeg.DefaultQuality.
func New(quality int) *Renderer {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	return &Renderer{quality: quality}
}

// Key — детерминированный ключ превью: <photo_id>_<width>.jpg.
func Key(photoID uuid.UUID, width int) string {
	return photoID.String() + "_" + strconv.Itoa(width) + ".jpg"
}

// Render декодирует src и возвращает превью для каждой ширины в порядке widths.
// Если исходник уже своих размеров, он не растягивается: превью кодируется в
// исходной ширине, но ключ остаётся ключом запрошенной ширины.
func (r *Renderer) Render(ctx context.Context, src string, photoID uuid.UUID, widths []int) ([]Thumbnail, error) {
	const op = "thumbnail/Render"

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}

	srcWidth := img.Bounds().Dx()
	if srcWidth == 0 || img.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%s: %w: empty image", op, ErrDecode)
	}

	out := make([]Thumbnail, 0, len(widths))
	for _, w := range widths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if w <= 0 {
			return nil, fmt.Errorf("%s: invalid width %d", op, w)
		}

		target := w
		if target > srcWidth {
			target = srcWidth
		}

		scaled := resize.Resize(uint(target), 0, img, resize.Lanczos3)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: r.quality}); err != nil {
			return nil, fmt.Errorf("%s: encode %d: %w", op, w, err)
		}

		out = append(out, Thumbnail{
			Width:  scaled.Bounds().Dx(),
			Height: scaled.Bounds().Dy(),
			Key:    Key(photoID, w),
			Data:   buf.Bytes(),
		})
	}

	return out, nil
}
