package api

import "errors"

var ErrUploadTooLarge = errors.New("upload too large")
