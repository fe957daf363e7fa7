package handler

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"gradebook/internal/apperr"
	"gradebook/internal/grading"
	"gradebook/internal/messages"
	"gradebook/internal/model"
	"gradebook/internal/service"
	"gradebook/internal/validate"
	"net/http"
)

type StudentHandler struct {
	studentService *service.StudentService
	gradeService   *service.GradeService
}

func NewStudentHandler(studentService *service.StudentService, gradeService *service.GradeService) *StudentHandler {
	return &StudentHandler{studentService: studentService, gradeService: gradeService}
}

// studentView is a student with its derived grade figures.
type studentView struct {
	ID        uint               `json:"id"`
	FirstName string             `json:"firstname"`
	LastName  string             `json:"lastname"`
	Email     string             `json:"email"`
	Grades    map[string]float64 `json:"grades"`
	Average   string             `json:"average"`
	Letter    string             `json:"letter"`
	Info      string             `json:"info"`
}

func newStudentView(s *model.Student) studentView {
	r := s.Record()
	avg := grading.Average(r)
	return studentView{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Grades:    r.Grades,
		Average:   grading.FormatGrade(avg),
		Letter:    grading.LetterFor(avg),
		Info:      r.Info(grading.FormatGrade(avg), grading.LetterFor(avg)),
	}
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}
	sortBy := query.Get("sort_by")
	if sortBy == "" {
		sortBy = "last_name"
	}
	sortOrder := query.Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}

	students, totalCount, totalPages, err := h.studentService.ListStudents(page, limit, sortBy, sortOrder, query.Get("name"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":       students,
		"page":       page,
		"limit":      limit,
		"total":      totalCount,
		"totalPages": totalPages,
	})
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var in service.StudentInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	student, err := h.studentService.CreateStudent(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": messages.Get(messages.StudentAdded),
		"student": newStudentView(student),
	})
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	student, err := h.studentService.GetStudent(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newStudentView(student))
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in service.StudentInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	student, err := h.studentService.UpdateStudent(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": messages.Get(messages.StudentUpdated),
		"student": newStudentView(student),
	})
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.studentService.DeleteStudent(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, messages.Get(messages.StudentDeleted))
}

// scoreBody accepts the score as a JSON number or a numeric string.
type scoreBody struct {
	Score json.RawMessage `json:"score"`
}

func (b scoreBody) value() (float64, error) {
	raw := string(b.Score)
	if raw == "" || raw == "null" {
		return 0, apperr.Grade("", "score is required")
	}
	var text string
	if err := json.Unmarshal(b.Score, &text); err == nil {
		return validate.ParseScore(text)
	}
	return validate.ParseScore(raw)
}

func (h *StudentHandler) SetGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var body scoreBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	score, err := body.value()
	if err != nil {
		respondError(w, r, err)
		return
	}
	grade, err := h.gradeService.SetGrade(id, mux.Vars(r)["subject"], score)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": messages.Get(messages.GradeUpdated),
		"grade":   grade,
	})
}

func (h *StudentHandler) DeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.gradeService.DeleteGrade(id, mux.Vars(r)["subject"]); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, messages.Get(messages.GradeDeleted))
}
