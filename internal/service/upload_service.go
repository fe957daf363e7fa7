package service

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gradebook/internal/csvio"
	"gradebook/internal/messages"
	"gradebook/internal/model"
	"gradebook/internal/record"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

type ProgressInfo struct {
	JobID        string    `json:"job_id"`
	FileName     string    `json:"file_name"`
	Shape        string    `json:"shape,omitempty"`
	TotalRecords int       `json:"total_records"`
	Processed    int       `json:"processed"`
	Imported     int       `json:"imported"`
	Skipped      int       `json:"skipped"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
}

// UploadService imports uploaded CSV files in the background and tracks
// progress per import job.
type UploadService struct {
	db                *gorm.DB
	students          *StudentService
	subjects          *SubjectService
	stats             *StatsService
	progressMap       map[string]*ProgressInfo
	progressLock      sync.RWMutex
	progressListeners map[chan *ProgressInfo]bool
	listenerLock      sync.RWMutex

	importSemaphore chan struct{}
}

func NewUploadService(db *gorm.DB, students *StudentService, subjects *SubjectService, stats *StatsService, maxConcurrent int) *UploadService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &UploadService{
		db:                db,
		students:          students,
		subjects:          subjects,
		stats:             stats,
		progressMap:       make(map[string]*ProgressInfo),
		progressListeners: make(map[chan *ProgressInfo]bool),
		importSemaphore:   make(chan struct{}, maxConcurrent),
	}
}

func (s *UploadService) RegisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.progressListeners[ch] = true
}

func (s *UploadService) UnregisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.progressListeners, ch)
}

// BroadcastProgress sends a copy of progress to every listener that is ready
// to receive; slow listeners miss the update.
func (s *UploadService) BroadcastProgress(progress *ProgressInfo) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.progressListeners {
		snapshot := *progress
		select {
		case listener <- &snapshot:
		default:
		}
	}
}

// NewJob registers a queued import for fileName and returns its id.
func (s *UploadService) NewJob(fileName string) string {
	jobID := uuid.NewString()
	s.progressLock.Lock()
	s.progressMap[jobID] = &ProgressInfo{
		JobID:     jobID,
		FileName:  fileName,
		Status:    StatusQueued,
		StartTime: time.Now(),
	}
	s.progressLock.Unlock()
	return jobID
}

func (s *UploadService) update(jobID string, fn func(p *ProgressInfo)) {
	s.progressLock.Lock()
	defer s.progressLock.Unlock()

	if progress, exists := s.progressMap[jobID]; exists {
		fn(progress)
		if progress.Processed > progress.TotalRecords {
			progress.Processed = progress.TotalRecords
		}
		s.BroadcastProgress(progress)
	}
}

func (s *UploadService) updateProgressError(jobID string, errorMsg string) {
	s.update(jobID, func(p *ProgressInfo) {
		p.Status = StatusError
		p.Error = errorMsg
		p.EndTime = time.Now()
	})
}

func (s *UploadService) GetProgress(jobID string) *ProgressInfo {
	s.progressLock.RLock()
	defer s.progressLock.RUnlock()

	if progress, exists := s.progressMap[jobID]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

func (s *UploadService) GetAllProgress() []*ProgressInfo {
	s.progressLock.RLock()
	defer s.progressLock.RUnlock()

	result := make([]*ProgressInfo, 0, len(s.progressMap))
	for _, progress := range s.progressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	return result
}

// ProcessCSV imports the file at filePath under jobID. Invalid rows and
// students whose email is already taken are skipped and counted; only an
// unreadable or empty file fails the job.
func (s *UploadService) ProcessCSV(jobID, filePath string) error {
	s.importSemaphore <- struct{}{}
	defer func() { <-s.importSemaphore }()

	log := logrus.WithFields(logrus.Fields{"job": jobID, "file": filepath.Base(filePath)})
	s.update(jobID, func(p *ProgressInfo) {
		p.Status = StatusProcessing
		p.StartTime = time.Now()
	})

	file, err := os.Open(filePath)
	if err != nil {
		s.updateProgressError(jobID, "Failed to open file: "+err.Error())
		return errors.Wrap(err, "opening upload")
	}
	defer file.Close()

	result, err := csvio.Import(file)
	if err != nil {
		s.updateProgressError(jobID, messages.Get(messages.CSVParseError)+": "+err.Error())
		return err
	}
	if result.Skipped != nil {
		log.WithField("rows", result.SkippedCount()).Debugf("Skipped invalid rows: %v", result.Skipped)
	}
	s.update(jobID, func(p *ProgressInfo) {
		p.Shape = result.Shape.String()
		p.TotalRecords = result.Rows
		p.Processed = result.SkippedCount()
		p.Skipped = result.SkippedCount()
	})

	subjectIDs, err := s.subjects.NameToID()
	if err != nil {
		s.updateProgressError(jobID, err.Error())
		return err
	}

	seen := make(map[string]bool)
	imported, duplicates, explicitIDs := 0, 0, false
	for i, student := range result.Students {
		ok, err := s.saveStudent(student, subjectIDs, seen)
		if err != nil {
			s.updateProgressError(jobID, err.Error())
			return err
		}
		if ok {
			imported++
			explicitIDs = explicitIDs || student.ID > 0
		} else {
			duplicates++
		}
		if (i+1)%100 == 0 {
			s.update(jobID, func(p *ProgressInfo) {
				p.Processed = p.Skipped + imported + duplicates
			})
		}
	}

	if explicitIDs {
		if err := s.resyncSequence(); err != nil {
			log.WithError(err).Warn("Failed to resync student id sequence")
		}
	}
	s.stats.Invalidate()
	s.update(jobID, func(p *ProgressInfo) {
		p.Imported = imported
		p.Skipped += duplicates
		p.Processed = p.TotalRecords
		p.Status = StatusCompleted
		p.EndTime = time.Now()
	})
	log.WithFields(logrus.Fields{"imported": imported, "skipped": result.SkippedCount() + duplicates}).
		Info(messages.Get(messages.ImportCompleted))
	return nil
}

// saveStudent inserts one imported student with enrollments and grades for
// every subject it has a score in. It reports false when the student is a
// duplicate of an existing one or of an earlier row.
func (s *UploadService) saveStudent(r *record.Student, subjectIDs map[string]string, seen map[string]bool) (bool, error) {
	if seen[r.Email] {
		return false, nil
	}
	seen[r.Email] = true

	existing, err := s.students.FindByEmail(r.Email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	row := model.Student{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email}
	if r.ID > 0 {
		var count int64
		if err := s.db.Model(&model.Student{}).Where("id = ?", r.ID).Count(&count).Error; err != nil {
			return false, errors.Wrap(err, "checking student id")
		}
		if count > 0 {
			return false, nil
		}
		row.ID = uint(r.ID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Grades").Create(&row).Error; err != nil {
			return err
		}
		for _, subject := range r.Subjects() {
			subjectID, ok := subjectIDs[subject]
			if !ok {
				logrus.WithFields(logrus.Fields{"student": r.Email, "subject": subject}).
					Warn("Ignoring grade for unknown subject")
				continue
			}
			enrollment := model.Enrollment{StudentID: row.ID, SubjectID: subjectID}
			if err := tx.Omit("Student", "Subject").Create(&enrollment).Error; err != nil {
				return err
			}
			if err := upsertGrade(tx, &model.Grade{StudentID: row.ID, SubjectID: subjectID, Score: r.Grades[subject]}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "importing %s", r.Email)
	}
	return true, nil
}

// resyncSequence moves the Postgres id sequence past ids inserted
// explicitly by a full-shape import. SQLite needs nothing.
func (s *UploadService) resyncSequence() error {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	err := s.db.Exec("SELECT setval(pg_get_serial_sequence('students', 'id'), (SELECT COALESCE(MAX(id), 1) FROM students))").Error
	return errors.Wrap(err, "resyncing sequence")
}
