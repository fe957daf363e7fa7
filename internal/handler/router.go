package handler

import (
	"github.com/gorilla/mux"
	"gradebook/internal/service"
)

// NewRouter wires every endpoint to svc.
func NewRouter(svc *service.Services, uploadDir string) *mux.Router {
	studentHandler := NewStudentHandler(svc.Students, svc.Grades)
	subjectHandler := NewSubjectHandler(svc.Subjects, svc.Enrollments, svc.Grades)
	statsHandler := NewStatsHandler(svc.Stats)
	uploadHandler := NewUploadHandler(svc.Uploads, uploadDir)
	progressHandler := NewProgressHandler(svc.Uploads)
	exportHandler := NewExportHandler(svc.Exports)

	r := mux.NewRouter()

	r.HandleFunc("/students", studentHandler.ListStudents).Methods("GET")
	r.HandleFunc("/students", studentHandler.CreateStudent).Methods("POST")
	r.HandleFunc("/students/{id}", studentHandler.GetStudent).Methods("GET")
	r.HandleFunc("/students/{id}", studentHandler.UpdateStudent).Methods("PUT")
	r.HandleFunc("/students/{id}", studentHandler.DeleteStudent).Methods("DELETE")
	r.HandleFunc("/students/{id}/grades/{subject}", studentHandler.SetGrade).Methods("PUT")
	r.HandleFunc("/students/{id}/grades/{subject}", studentHandler.DeleteGrade).Methods("DELETE")

	r.HandleFunc("/subjects", subjectHandler.ListSubjects).Methods("GET")
	r.HandleFunc("/subjects", subjectHandler.CreateSubject).Methods("POST")
	r.HandleFunc("/subjects/{id}", subjectHandler.DeleteSubject).Methods("DELETE")
	r.HandleFunc("/subjects/{id}/enrollments", subjectHandler.Roster).Methods("GET")
	r.HandleFunc("/subjects/{id}/enrollments", subjectHandler.Enroll).Methods("POST")
	r.HandleFunc("/subjects/{id}/enrollments/{student}", subjectHandler.Unenroll).Methods("DELETE")
	r.HandleFunc("/subjects/{id}/report", subjectHandler.Report).Methods("GET")

	r.HandleFunc("/stats", statsHandler.Statistics).Methods("GET")
	r.HandleFunc("/stats/top", statsHandler.Top).Methods("GET")
	r.HandleFunc("/stats/below", statsHandler.Below).Methods("GET")

	r.HandleFunc("/upload", uploadHandler.UploadCSV).Methods("POST")
	r.HandleFunc("/progress", progressHandler.GetAllProgress).Methods("GET")
	r.HandleFunc("/progress/file", progressHandler.GetFileProgress).Methods("GET")
	r.HandleFunc("/progress/events", progressHandler.SSEProgress).Methods("GET")

	r.HandleFunc("/export", exportHandler.Export).Methods("GET")

	return r
}
