package services

import (
	"mime"
	"strings"
)

// Upload is a file received from a multipart form.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadKind is the document format of an accepted upload.
type UploadKind int

const (
	UploadCSV UploadKind = iota
	UploadWorkbook
)

var csvMimeTypes = map[string]bool{
	"text/csv":        true,
	"application/csv": true,
	"text/plain":      true,
}

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var workbookMimeTypes = map[string]bool{
	xlsxMimeType:               true,
	"application/octet-stream": true,
}

// ValidateUpload checks, in order, presence, extension, MIME type and size.
// Workbooks (.xlsx) are only accepted when allowWorkbook is set. MIME
// parameters such as charset are ignored.
func ValidateUpload(u *Upload, allowWorkbook bool) (UploadKind, error) {
	if u == nil {
		return 0, ErrNoFile
	}

	kind, allowed := UploadCSV, csvMimeTypes
	switch extension(u.FileName) {
	case "csv":
	case "xlsx":
		if !allowWorkbook {
			return 0, ErrInvalidExtension
		}
		kind, allowed = UploadWorkbook, workbookMimeTypes
	default:
		return 0, ErrInvalidExtension
	}

	mediaType, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil || !allowed[mediaType] {
		return 0, ErrInvalidMimeType
	}

	if len(u.Data) == 0 {
		return 0, ErrEmptyFile
	}
	return kind, nil
}

// extension is the lower-cased text after the last dot, or the whole name
// when it has none.
func extension(name string) string {
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}
