package service

import (
	"gradebook/internal/apperr"
	"gradebook/internal/csvio"
	"io"
)

const (
	ExportFull   = "full"
	ExportReport = "report"
)

type ExportService struct {
	students *StudentService
}

func NewExportService(students *StudentService) *ExportService {
	return &ExportService{students: students}
}

// Export writes every student as CSV in the requested format. The full
// format can be imported again; the report format cannot.
func (s *ExportService) Export(w io.Writer, format string) error {
	if format == "" {
		format = ExportFull
	}
	if format != ExportFull && format != ExportReport {
		return apperr.Param("format", "Format must be 'full' or 'report'")
	}
	store, err := s.students.LoadStore()
	if err != nil {
		return err
	}
	if format == ExportReport {
		return csvio.ExportReport(w, store.List())
	}
	return csvio.Export(w, store.List())
}
