package handler

import (
	"github.com/gorilla/mux"
	"gradebook/internal/messages"
	"gradebook/internal/service"
	"net/http"
)

type SubjectHandler struct {
	subjectService    *service.SubjectService
	enrollmentService *service.EnrollmentService
	gradeService      *service.GradeService
}

func NewSubjectHandler(subjectService *service.SubjectService, enrollmentService *service.EnrollmentService, gradeService *service.GradeService) *SubjectHandler {
	return &SubjectHandler{
		subjectService:    subjectService,
		enrollmentService: enrollmentService,
		gradeService:      gradeService,
	}
}

type subjectBody struct {
	ID   string `json:"subject_id" validate:"required,subjectid"`
	Name string `json:"subject_name" validate:"required,subjectname"`
}

type enrollBody struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

func (h *SubjectHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectService.ListSubjects()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": subjects})
}

func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var body subjectBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	subject, err := h.subjectService.CreateSubject(body.ID, body.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": messages.Get(messages.SubjectAdded),
		"subject": subject,
	})
}

func (h *SubjectHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.subjectService.DeleteSubject(mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, messages.Get(messages.SubjectDeleted))
}

func (h *SubjectHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.enrollmentService.Roster(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

func (h *SubjectHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var body enrollBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.enrollmentService.Enroll(body.StudentID, mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, messages.Get(messages.StudentEnrolled))
}

func (h *SubjectHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "student")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.enrollmentService.Unenroll(studentID, mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, messages.Get(messages.EnrollmentRemoved))
}

func (h *SubjectHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.gradeService.SubjectReport(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
