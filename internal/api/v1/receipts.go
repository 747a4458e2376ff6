package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/server/middleware"
)

// ReceiptUploadHandler accepts a multipart "file" field and stores it in the
// blob store under the caller's organization. Plain chi handler rather than a
// huma operation; huma's request body handling does not cover multipart
// streaming uploads cleanly.
func ReceiptUploadHandler(blobs blob.Store, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, ok := middleware.OrganizationIDFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusForbidden, "missing organization context")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
				return
			}
			writeJSONError(w, http.StatusBadRequest, "invalid multipart request")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		obj, err := blobs.Put(r.Context(), orgID, header.Filename, file)
		if err != nil {
			log.Error().Err(err).Str("name", header.Filename).Msg("api: receipt upload failed")
			writeJSONError(w, http.StatusInternalServerError, "failed to store receipt")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(obj)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
