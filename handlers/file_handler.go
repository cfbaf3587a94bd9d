// handlers/file_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"p9e.in/permits/models"
)

// useGCS reports whether uploads should go to Google Cloud Storage.
// Google Cloud sets GOOGLE_APPLICATION_CREDENTIALS or K_SERVICE (Cloud
// Run); USE_GCS forces it for local testing against a real bucket.
func useGCS() bool {
	return os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""
}

// UploadPermitFile attaches an uploaded document to a permit. The
// object key is {permitId}/{timestamp}.{ext}; the original filename is
// kept on the permit_files row for display. Attachments are append-only.
func UploadPermitFile(w http.ResponseWriter, r *http.Request) {
	id, ok := permitID(r)
	if !ok {
		http.Error(w, "invalid permit id", http.StatusBadRequest)
		return
	}
	// Uploads always hang off an existing permit.
	if _, err := store.GetPermit(id); err != nil {
		writePermitError(w, err)
		return
	}

	// Parse the multipart form (max 10MB, same cap the form advertises)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s/%d%s", id, time.Now().UnixMilli(), ext)

	var url string
	if useGCS() {
		url, err = saveFileGCS(r.Context(), key, file, header.Header.Get("Content-Type"))
	} else {
		url, err = saveFileLocal(key, file)
	}
	if err != nil {
		http.Error(w, "failed to store file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	record := models.PermitFile{
		PermitID: id,
		FileName: header.Filename,
		FileURL:  url,
		FileType: header.Header.Get("Content-Type"),
		FileSize: header.Size,
	}
	if err := store.CreateFile(&record); err != nil {
		writePermitError(w, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"permit": id,
		"file":   header.Filename,
		"size":   header.Size,
	}).Info("Stored permit attachment")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

// ListPermitFiles returns the attachments recorded for a permit.
func ListPermitFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := permitID(r)
	if !ok {
		http.Error(w, "invalid permit id", http.StatusBadRequest)
		return
	}
	if _, err := store.GetPermit(id); err != nil {
		writePermitError(w, err)
		return
	}
	files, err := store.ListFiles(id)
	if err != nil {
		writePermitError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}
