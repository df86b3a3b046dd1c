package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "leadscope/internal/errors"
	"leadscope/internal/services"
	api "leadscope/pkg/contracts/api/v1"
)

// multipartMemory is the part of a form kept in memory before spilling to
// temporary files.
const multipartMemory = 1 << 20

// CSVHandler handles lead document uploads.
type CSVHandler struct {
	leads        LeadProcessor
	maxBytes     int64
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewCSVHandler creates a new upload handler. maxBytes bounds the whole
// request body; zero leaves it unbounded.
func NewCSVHandler(leads LeadProcessor, maxBytes int64, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *CSVHandler {
	return &CSVHandler{
		leads:        leads,
		maxBytes:     maxBytes,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "csv_parser")),
	}
}

// Routes returns the upload routes
func (h *CSVHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/upload-and-classify", h.UploadAndClassify)
	r.Post("/parse", h.Parse)

	return r
}

// UploadAndClassify handles POST /csv-parser/upload-and-classify
func (h *CSVHandler) UploadAndClassify(w http.ResponseWriter, r *http.Request) {
	upload, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := h.leads.UploadAndClassify(r.Context(), upload)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}

	resp := api.UploadAndClassifyResponse{
		Parsing: api.ParseSummary{
			TotalRows: res.Parsing.TotalRows,
			ValidRows: res.Parsing.ValidRows,
			Errors:    nonNil(res.Parsing.Errors),
		},
		Classification: res.Classification,
		Data:           nonNil(res.Parsing.Data),
	}
	render.JSON(w, r, resp)
}

// Parse handles POST /csv-parser/parse. It accepts CSV and xlsx documents and
// does not classify.
func (h *CSVHandler) Parse(w http.ResponseWriter, r *http.Request) {
	upload, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := h.leads.ParseUpload(r.Context(), upload)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	res.Data = nonNil(res.Data)
	res.Errors = nonNil(res.Errors)
	render.JSON(w, r, res)
}

// readUpload reads the "file" part of a multipart form. A request without
// one yields a nil upload, which the service rejects.
func (h *CSVHandler) readUpload(w http.ResponseWriter, r *http.Request) (*services.Upload, error) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"Request body too large", map[string]any{"max_size": tooLarge.Limit})
		case errors.Is(err, http.ErrNotMultipart):
			h.logger.DebugContext(r.Context(), "request is not a multipart form")
			return nil, nil
		default:
			return nil, apierrors.InvalidRequestWithError(err)
		}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	return &services.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// uploadError maps a lead service failure to its HTTP form. Rejections carry
// their message verbatim; everything else is a processing failure.
func uploadError(err error) error {
	switch {
	case services.IsUploadRejection(err):
		return apierrors.UploadRejected(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return apierrors.ProcessingFailed(err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
