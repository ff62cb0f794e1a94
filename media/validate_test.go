package media

import (
	"testing"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	allowed := []string{"image/webp", "image/jpeg", "image/png"}
	png := testPNG(t)

	tests := []struct {
		name    string
		upload  *models.PendingUpload
		maxSize int64
		wantErr error
	}{
		{"png accepted", models.UploadFromBytes("a.png", png), 2 << 20, nil},
		{"missing file", nil, 2 << 20, ErrMissingFile},
		{"too large", models.UploadFromBytes("a.png", png), int64(len(png) - 1), ErrFileTooLarge},
		{"text disguised as image", models.UploadFromBytes("a.jpg", []byte("hello, plain text")), 2 << 20, ErrUnsupportedType},
		{"gif refused", models.UploadFromBytes("a.gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")), 2 << 20, ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.upload, tt.maxSize, allowed)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
