package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gradebook/internal/service"
)

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetProgress(jobID string) *service.ProgressInfo {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.ProgressInfo)
}

func (m *MockProgressService) GetAllProgress() []*service.ProgressInfo {
	args := m.Called()
	return args.Get(0).([]*service.ProgressInfo)
}

func (m *MockProgressService) RegisterProgressListener(ch chan *service.ProgressInfo) {
	m.Called(ch)
}

func (m *MockProgressService) UnregisterProgressListener(ch chan *service.ProgressInfo) {
	m.Called(ch)
}

func TestGetFileProgress(t *testing.T) {
	mockService := new(MockProgressService)
	progress := &service.ProgressInfo{
		JobID:        "job-1",
		FileName:     "test.csv",
		TotalRecords: 100,
		Processed:    50,
		Status:       service.StatusProcessing,
	}
	mockService.On("GetProgress", "job-1").Return(progress)
	mockService.On("GetProgress", "missing").Return(nil)

	router := mux.NewRouter()
	router.HandleFunc("/progress/file", NewProgressHandler(mockService).GetFileProgress)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/progress/file?job=job-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var response service.ProgressInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "test.csv", response.FileName)
	assert.Equal(t, 100, response.TotalRecords)
	assert.Equal(t, 50, response.Processed)
	assert.Equal(t, service.StatusProcessing, response.Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/progress/file?job=missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/progress/file", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestGetAllProgress(t *testing.T) {
	mockService := new(MockProgressService)
	mockService.On("GetAllProgress").Return([]*service.ProgressInfo{
		{FileName: "file1.csv", Status: service.StatusProcessing},
		{FileName: "file2.csv", Status: service.StatusCompleted},
	})

	w := httptest.NewRecorder()
	NewProgressHandler(mockService).GetAllProgress(w, httptest.NewRequest("GET", "/progress", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response []*service.ProgressInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response, 2)
	assert.Equal(t, "file1.csv", response[0].FileName)
	assert.Equal(t, service.StatusCompleted, response[1].Status)
	mockService.AssertExpectations(t)
}

func TestSSEProgress(t *testing.T) {
	mockService := new(MockProgressService)
	mockService.On("RegisterProgressListener", mock.AnythingOfType("chan *service.ProgressInfo")).
		Run(func(args mock.Arguments) {
			ch := args.Get(0).(chan *service.ProgressInfo)
			ch <- &service.ProgressInfo{JobID: "job-1", FileName: "test.csv", Status: service.StatusCompleted}
		}).
		Return()
	mockService.On("UnregisterProgressListener", mock.AnythingOfType("chan *service.ProgressInfo")).Return()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/progress/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		NewProgressHandler(mockService).SSEProgress(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after the client went away")
	}

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), `data: {"job_id":"job-1","file_name":"test.csv"`)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
	mockService.AssertExpectations(t)
}
