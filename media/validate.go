package media

import (
	"fmt"

	"portfolio/models"

	"github.com/gabriel-vasile/mimetype"
)

// ValidateUpload checks the size and the sniffed content type of an upload.
// Put does not validate, handlers must call this first.
func ValidateUpload(upload *models.PendingUpload, maxSize int64, allowedTypes []string) error {
	if upload == nil {
		return ErrMissingFile
	}
	if maxSize > 0 && upload.Size > maxSize {
		return fmt.Errorf("%w (%d bytes, max %d)", ErrFileTooLarge, upload.Size, maxSize)
	}
	f, err := upload.Open()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for _, allowed := range allowedTypes {
		if mtype.Is(allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w (%s)", ErrUnsupportedType, mtype.String())
}
