package handler

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gradebook/internal/apperr"
	"gradebook/internal/messages"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

const maxUploadSize = 100 << 20

// Importer runs CSV imports in the background.
type Importer interface {
	NewJob(fileName string) string
	ProcessCSV(jobID, filePath string) error
}

type UploadHandler struct {
	uploadService Importer
	uploadDir     string
	save          func(header *multipart.FileHeader, savePath string) error
}

func NewUploadHandler(uploadService Importer, uploadDir string) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, uploadDir: uploadDir, save: saveUpload}
}

type uploadedJob struct {
	JobID    string `json:"job_id"`
	FileName string `json:"file_name"`
}

// UploadCSV stores every file of the multipart field "files" and starts one
// import job per stored file. It answers 202 before any import finishes; a
// file that cannot be stored gets no job.
func (h *UploadHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		respondError(w, r, errors.Wrap(err, "creating upload directory"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: messages.Get(messages.FileUploadError)})
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, r, apperr.Param("files", "No files uploaded"))
		return
	}

	var wg sync.WaitGroup
	jobs := make([]uploadedJob, 0, len(files))

	for _, header := range files {
		name := filepath.Base(header.Filename)
		savePath := filepath.Join(h.uploadDir, uuid.NewString()+"_"+name)

		if err := h.save(header, savePath); err != nil {
			logrus.WithError(err).WithField("file", name).Error("Error saving upload")
			continue
		}
		jobID := h.uploadService.NewJob(name)
		jobs = append(jobs, uploadedJob{JobID: jobID, FileName: name})

		wg.Add(1)
		go func(jobID, filePath string) {
			defer wg.Done()
			if err := h.uploadService.ProcessCSV(jobID, filePath); err != nil {
				logrus.WithError(err).WithField("job", jobID).Error("Error processing file")
			}
		}(jobID, savePath)
	}

	if len(jobs) == 0 {
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: messages.Get(messages.FileUploadError)})
		return
	}

	go func() {
		wg.Wait()
		logrus.Debug("All files processed")
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": messages.Get(messages.UploadStarted),
		"jobs":    jobs,
	})
}

func saveUpload(header *multipart.FileHeader, savePath string) error {
	file, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer file.Close()

	outFile, err := os.Create(savePath)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, file)
	return errors.Wrap(err, "writing file")
}
