package processing

import (
	"fmt"
	"io"

	"portfolio/config"
)

// Converter re-encodes an uploaded image into the format served by the site
type Converter interface {
	// Extension is the file extension of the output, without the dot
	Extension() string
	Convert(src io.Reader, dst io.Writer) error
}

func NewConverter(cfg config.ImageConfig) (Converter, error) {
	switch cfg.Format {
	case config.ImageFormatWebP, "":
		return &WebPConverter{Quality: cfg.Quality, MaxDimension: cfg.MaxDimension}, nil
	case config.ImageFormatJPEG:
		return &JPEGConverter{Quality: cfg.Quality, MaxDimension: cfg.MaxDimension}, nil
	}
	return nil, fmt.Errorf("image format %q unavailable", cfg.Format)
}
