package handler

import (
	"encoding/json"
	"github.com/sirupsen/logrus"
	"gradebook/internal/apperr"
	"gradebook/internal/service"
	"net/http"
)

// ProgressService is the part of the upload service the progress endpoints
// read from.
type ProgressService interface {
	GetProgress(jobID string) *service.ProgressInfo
	GetAllProgress() []*service.ProgressInfo
	RegisterProgressListener(ch chan *service.ProgressInfo)
	UnregisterProgressListener(ch chan *service.ProgressInfo)
}

type ProgressHandler struct {
	uploadService ProgressService
}

func NewProgressHandler(uploadService ProgressService) *ProgressHandler {
	return &ProgressHandler{uploadService: uploadService}
}

// GetFileProgress returns the progress of one import job
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		respondError(w, r, apperr.Param("job", "job parameter is required"))
		return
	}

	progress := h.uploadService.GetProgress(jobID)
	if progress == nil {
		respondError(w, r, apperr.Missing("import job", jobID))
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

// GetAllProgress returns the progress of every import job
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.uploadService.GetAllProgress())
}

// SSEProgress streams progress updates to the client as Server-Sent Events
// until the client goes away.
func (h *ProgressHandler) SSEProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)

	progressChan := make(chan *service.ProgressInfo, 8)
	h.uploadService.RegisterProgressListener(progressChan)
	defer h.uploadService.UnregisterProgressListener(progressChan)

	if flusher != nil {
		flusher.Flush()
	}
	for {
		select {
		case progress := <-progressChan:
			data, err := json.Marshal(progress)
			if err != nil {
				logrus.WithError(err).Warn("Error marshaling progress")
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				logrus.WithError(err).Debug("Error writing SSE data")
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-r.Context().Done():
			logrus.Debug("Progress client disconnected")
			return
		}
	}
}
