package processing

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// JPEGConverter is a pure Go converter, used when libvips is not wanted
type JPEGConverter struct {
	Quality      int
	MaxDimension uint // 0 keeps the original size
}

func (c *JPEGConverter) Extension() string {
	return "jpg"
}

func (c *JPEGConverter) Convert(src io.Reader, dst io.Writer) error {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if c.MaxDimension > 0 {
		img = resize.Thumbnail(c.MaxDimension, c.MaxDimension, img, resize.Lanczos3)
	}
	quality := c.Quality
	if quality < 1 || quality > 100 {
		quality = 80
	}
	return imaging.Encode(dst, img, imaging.JPEG, imaging.JPEGQuality(quality))
}
