package services

import "errors"

// Upload rejections. The messages are returned to the client verbatim.
var (
	ErrNoFile           = errors.New("No se ha proporcionado ningún archivo")
	ErrInvalidExtension = errors.New("El archivo debe tener extensión .csv")
	ErrInvalidMimeType  = errors.New("El archivo debe ser de tipo CSV (text/csv o application/csv)")
	ErrEmptyFile        = errors.New("El archivo CSV está vacío")
)

// Export errors
var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNothingToExport   = errors.New("no classifications to export")
)

// IsUploadRejection reports whether err is one of the upload validation
// failures.
func IsUploadRejection(err error) bool {
	return errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidMimeType) ||
		errors.Is(err, ErrEmptyFile)
}
