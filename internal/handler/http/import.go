package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
)

// multipart overhead allowed on top of the file size limit
const importFormOverhead = 1 << 20

type ImportHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	Template(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type importHandlerImpl struct {
	importService dataimport.ImportService
}

func NewImportHandler(importService dataimport.ImportService) ImportHandler {
	return &importHandlerImpl{importService: importService}
}

// Import implements ImportHandler
func (h *importHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	req, cleanup, ok := parseImportUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.importService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Import completed successfully", result)
}

// Validate implements ImportHandler
func (h *importHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	req, cleanup, ok := parseImportUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.importService.Validate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "File passed validation", result)
}

// Template implements ImportHandler
func (h *importHandlerImpl) Template(w http.ResponseWriter, r *http.Request) {
	importType, err := dataimport.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	tpl, err := h.importService.Template(importType, chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, tpl.Filename, tpl.ContentType, tpl.Content)
}

// Status implements ImportHandler
func (h *importHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.importService.Status())
}

// parseImportUpload reads the "file" part and the optional "import_type" field.
func parseImportUpload(w http.ResponseWriter, r *http.Request) (dataimport.ImportRequest, func(), bool) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, dataimport.MaxFileSize+importFormOverhead)
	if err := r.ParseMultipartForm(dataimport.MaxFileSize); err != nil {
		response.HandleError(w, dataimport.ErrFileTooLarge)
		return dataimport.ImportRequest{}, noop, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File is required", nil)
		return dataimport.ImportRequest{}, noop, false
	}

	importType, err := dataimport.ParseType(r.FormValue("import_type"))
	if err != nil {
		_ = file.Close()
		response.HandleError(w, err)
		return dataimport.ImportRequest{}, noop, false
	}

	cleanup := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}
	return dataimport.ImportRequest{
		Filename: header.Filename,
		File:     file,
		Type:     importType,
	}, cleanup, true
}
