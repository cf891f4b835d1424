package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-gallery-backend/errs"
	"github.com/rpupo63/portfolio-gallery-backend/metrics"
	"github.com/rpupo63/portfolio-gallery-backend/storage"
)

// maxUploadSize bounds one image upload.
const maxUploadSize = 10 * 1024 * 1024 // 10MB

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *storage.ImageStore
	metrics   *metrics.Metrics
}

func newUploadHandler(store *storage.ImageStore, m *metrics.Metrics) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		metrics:   m,
	}
}

// uploadImage stores one image and returns its public URL
// @Summary Upload image
// @Description Uploads a cover or challenge image and returns its stable public URL
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param kind formData string true "Upload kind (cover|challenge)"
// @Param file formData file true "Image file"
// @Success 200 {object} map[string]string "Public URL of the stored image"
// @Failure 400 {object} ErrorResponse "Bad Request - missing file or unknown kind"
// @Failure 500 {object} ErrorResponse "Internal Server Error - upload failed"
// @Router /admin/uploads [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		kind := r.FormValue("kind")
		if !storage.ValidKind(kind) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("kind", "must be cover or challenge"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		url, err := h.store.Upload(r.Context(), kind, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		if err != nil {
			h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to upload image")
			h.responder.WriteError(w, errs.NewInternalError("failed to upload image"))
			return
		}

		h.metrics.AddUploadBytes(header.Size)
		h.responder.WriteJSON(w, map[string]string{"url": url})
	}
}
