package media

import (
	"errors"
	"fmt"
)

var (
	ErrNoUpload    = errors.New("no file attached to media")
	ErrStorage     = errors.New("storage failure")
	ErrConversion  = errors.New("image conversion failed")
	ErrPersistence = errors.New("could not save media")
	ErrValidation  = errors.New("invalid upload")

	ErrMissingFile     = fmt.Errorf("%w: a file is required", ErrValidation)
	ErrFileTooLarge    = fmt.Errorf("%w: file is too large", ErrValidation)
	ErrUnsupportedType = fmt.Errorf("%w: unsupported file type", ErrValidation)
)
