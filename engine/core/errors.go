package core

import (
	"errors"
)

var (
	ErrDeviceCreation      = errors.New("graphics device creation failed")
	ErrDefaultShader       = errors.New("default shader could not be loaded")
	ErrDefaultTexture      = errors.New("default texture could not be loaded")
	ErrInvalidBatchConfig  = errors.New("invalid render batch configuration")
	ErrMatrixStackOverflow = errors.New("matrix stack overflow")
	ErrUnsupportedFormat   = errors.New("unsupported pixel format")
	ErrShaderCompile       = errors.New("shader compilation failed")
	ErrNotInitialized      = errors.New("not initialized")
	ErrUnknown             = errors.New("unknown")
)
