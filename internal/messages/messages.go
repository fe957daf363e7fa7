package messages

type Key string

const (
	StudentAdded      Key = "student_added"
	StudentUpdated    Key = "student_updated"
	StudentDeleted    Key = "student_deleted"
	GradeUpdated      Key = "grade_updated"
	GradeDeleted      Key = "grade_deleted"
	InvalidGrade      Key = "invalid_grade"
	StudentNotFound   Key = "student_not_found"
	SubjectAdded      Key = "subject_added"
	SubjectDeleted    Key = "subject_deleted"
	StudentEnrolled   Key = "student_enrolled"
	AlreadyEnrolled   Key = "already_enrolled"
	EnrollmentRemoved Key = "enrollment_removed"
	FileUploadError   Key = "file_upload_error"
	CSVParseError     Key = "csv_parse_error"
	UploadStarted     Key = "upload_started"
	ImportCompleted   Key = "import_completed"
)

var text = map[Key]string{
	StudentAdded:      "Student added successfully",
	StudentUpdated:    "Student updated successfully",
	StudentDeleted:    "Student deleted successfully",
	GradeUpdated:      "Grade updated successfully",
	GradeDeleted:      "Grade removed successfully",
	InvalidGrade:      "Invalid grade value",
	StudentNotFound:   "Student not found",
	SubjectAdded:      "Subject added successfully",
	SubjectDeleted:    "Subject deleted successfully",
	StudentEnrolled:   "Student enrolled successfully",
	AlreadyEnrolled:   "Student is already enrolled in this subject",
	EnrollmentRemoved: "Student removed from enrollment",
	FileUploadError:   "File upload error",
	CSVParseError:     "Error parsing CSV file",
	UploadStarted:     "Files uploaded successfully and processing started",
	ImportCompleted:   "Import completed",
}

// Get returns the text for key, or the key itself when there is none.
func Get(key Key) string {
	if s, ok := text[key]; ok {
		return s
	}
	return string(key)
}
