package processing

import (
	"fmt"
	"io"
	"sync"

	"portfolio/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
)

// InitVips starts libvips, call once at startup
func InitVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error().Str("domain", domain).Msg(msg)
		case vips.LogLevelWarning:
			logging.Warn().Str("domain", domain).Msg(msg)
		default:
			logging.Debug().Str("domain", domain).Msg(msg)
		}
	}, vips.LogLevelWarning)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})
	vipsInitialized = true
	logging.Info().Str("version", vips.Version).Msg("libvips initialized")
}

func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
	}
}

type WebPConverter struct {
	Quality      int
	MaxDimension uint // 0 keeps the original size
}

func (c *WebPConverter) Extension() string {
	return "webp"
}

func (c *WebPConverter) Convert(src io.Reader, dst io.Writer) error {
	InitVips()

	ref, err := vips.NewImageFromReader(src)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	defer ref.Close()

	if err = ref.AutoRotate(); err != nil {
		return fmt.Errorf("auto rotate: %w", err)
	}
	if limit := int(c.MaxDimension); limit > 0 && (ref.Width() > limit || ref.Height() > limit) {
		if err = ref.Thumbnail(limit, limit, vips.InterestingNone); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
	}

	params := vips.NewWebpExportParams()
	params.Quality = c.Quality
	params.StripMetadata = true
	data, _, err := ref.ExportWebp(params)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = dst.Write(data)
	return err
}
