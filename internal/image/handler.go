package image

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/gracebir/image-service/internal/response"
)

// MaxUploadBytes is the largest accepted file size.
const MaxUploadBytes = 5 << 20 // 5MB

// multipart form field carrying the file
const fileField = "file"

// Handler holds HTTP handlers for image endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new image Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// uploadResponse is the body returned by a successful upload.
type uploadResponse struct {
	Message string `json:"message"`
	Image   *Image `json:"image"`
}

// listResponse is the body returned by the listing endpoint.
type listResponse struct {
	Images []Image `json:"images"`
}

// getResponse is the body returned by the single-image endpoint.
type getResponse struct {
	Image *Image `json:"image"`
}

// messageResponse is the body returned by delete.
type messageResponse struct {
	Message string `json:"message"`
}

// Upload godoc
//
//	@Summary		Upload an image
//	@Description	Accepts one multipart file (image/* or PDF, max 5MB), stores it, and records its metadata.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"file to upload"
//	@Success		201		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/api/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// generous slack over the file limit for multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+1<<20)

	file, header, err := r.FormFile(fileField)
	if err != nil {
		response.BadRequest(w, "no_file", "request must contain one multipart file field named \"file\"")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		response.BadRequest(w, "unreadable_file", "could not read uploaded file")
		return
	}
	if len(data) > MaxUploadBytes {
		response.BadRequest(w, "file_too_large", "file exceeds the 5MB limit")
		return
	}

	contentType, ok := allowedContentType(header.Header.Get("Content-Type"), data)
	if !ok {
		response.BadRequest(w, "unsupported_type", "only images and PDF files are accepted")
		return
	}

	img, err := h.svc.Upload(r.Context(), data, header.Filename, contentType)
	if err != nil {
		response.InternalError(w, "upload_failed")
		return
	}

	response.JSON(w, http.StatusCreated, uploadResponse{
		Message: "file uploaded successfully",
		Image:   img,
	})
}

// List godoc
//
//	@Summary	List images
//	@Tags		images
//	@Produce	json
//	@Success	200	{object}	listResponse
//	@Failure	500	{object}	response.ErrorBody
//	@Router		/api/images [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w, "list_failed")
		return
	}
	response.JSON(w, http.StatusOK, listResponse{Images: images})
}

// Get godoc
//
//	@Summary	Get one image
//	@Tags		images
//	@Produce	json
//	@Param		id	path		int	true	"image id"
//	@Success	200	{object}	getResponse
//	@Failure	400	{object}	response.ErrorBody
//	@Failure	404	{object}	response.ErrorBody
//	@Failure	500	{object}	response.ErrorBody
//	@Router		/api/images/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	img, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "not_found", "image not found")
			return
		}
		response.InternalError(w, "get_failed")
		return
	}
	response.JSON(w, http.StatusOK, getResponse{Image: img})
}

// Delete godoc
//
//	@Summary	Delete an image
//	@Tags		images
//	@Produce	json
//	@Param		id	path		int	true	"image id"
//	@Success	200	{object}	messageResponse
//	@Failure	400	{object}	response.ErrorBody
//	@Failure	404	{object}	response.ErrorBody
//	@Failure	500	{object}	response.ErrorBody
//	@Router		/api/images/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "not_found", "image not found")
			return
		}
		response.InternalError(w, "delete_failed")
		return
	}
	response.JSON(w, http.StatusOK, messageResponse{Message: "image deleted successfully"})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid_id", "id must be an integer")
		return 0, false
	}
	return id, true
}

// allowedContentType decides whether an upload is acceptable (image/* or PDF)
// and returns the content type the object will be tagged with. The declared
// multipart type is authoritative; when it is absent or generic, the bytes
// are sniffed instead.
func allowedContentType(declared string, data []byte) (string, bool) {
	ct := strings.TrimSpace(strings.ToLower(declared))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
	}

	if strings.HasPrefix(ct, "image/") || ct == "application/pdf" {
		return ct, true
	}
	return "", false
}
