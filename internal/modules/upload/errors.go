package upload

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrImageTooLarge   = errors.New("image dimensions exceed limit")
	ErrInvalidImage    = errors.New("file is not a decodable image")
)
