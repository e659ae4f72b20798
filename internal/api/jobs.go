package api

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusComplete   = "complete"
	JobStatusFailed     = "failed"

	FileStatusPending    = "pending"
	FileStatusProcessing = "processing"
	FileStatusComplete   = "complete"
	FileStatusError      = "error"
)

// DocumentResult is the outcome of turning one uploaded file into cards.
type DocumentResult struct {
	DocumentID int64  `json:"documentId"`
	Name       string `json:"name"`
	Pages      int    `json:"pages"`
	Deck       string `json:"deck,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Truncated  bool   `json:"truncated,omitempty"`
	CardCount  int    `json:"cardCount"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// GenerationJob tracks card generation for every file of an upload.
type GenerationJob struct {
	ID        string           `json:"jobId"`
	Deck      string           `json:"deck"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Files     []FileProgress   `json:"files"`
	Results   []DocumentResult `json:"results,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// FileProgress captures per-file progress updates that clients poll.
type FileProgress struct {
	Index   int             `json:"index"`
	Name    string          `json:"name"`
	Status  string          `json:"status"`
	Step    string          `json:"step,omitempty"`
	Message string          `json:"message,omitempty"`
	Percent int             `json:"percent"`
	Result  *DocumentResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type JobManager struct {
	mu   sync.RWMutex
	jobs map[string]*GenerationJob
}

func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*GenerationJob),
	}
}

func (m *JobManager) CreateJob(deck string, fileNames []string) *GenerationJob {
	files := make([]FileProgress, len(fileNames))
	for i, name := range fileNames {
		files[i] = FileProgress{
			Index:  i,
			Name:   name,
			Status: FileStatusPending,
		}
	}
	now := time.Now().UTC()
	job := &GenerationJob{
		ID:        uuid.NewString(),
		Deck:      deck,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Files:     files,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	return job.clone()
}

func (m *JobManager) GetJob(id string) (*GenerationJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	return job.clone(), true
}

func (m *JobManager) MarkProcessing(id string) {
	m.withJob(id, func(job *GenerationJob) {
		job.Status = JobStatusProcessing
	})
}

// MarkCompleted closes the job. A job whose every file failed is failed.
func (m *JobManager) MarkCompleted(id string) {
	m.withJob(id, func(job *GenerationJob) {
		job.Status = JobStatusFailed
		for _, file := range job.Files {
			if file.Status == FileStatusComplete {
				job.Status = JobStatusComplete
				return
			}
		}
		if job.Error == "" {
			job.Error = "no file could be processed"
		}
	})
}

func (m *JobManager) MarkFailed(id string, msg string) {
	m.withJob(id, func(job *GenerationJob) {
		job.Status = JobStatusFailed
		job.Error = strings.TrimSpace(msg)
	})
}

func (m *JobManager) UpdateFileProgress(id string, index int, step, message string, current, total int) {
	m.withJob(id, func(job *GenerationJob) {
		if file := job.file(index); file != nil {
			file.Status = FileStatusProcessing
			file.Step = step
			file.Message = message
			file.Percent = percent(current, total)
		}
	})
}

func (m *JobManager) MarkFileComplete(id string, index int, result DocumentResult) {
	m.withJob(id, func(job *GenerationJob) {
		if file := job.file(index); file != nil {
			file.Status = FileStatusComplete
			file.Step = "complete"
			file.Message = "Processing complete"
			file.Percent = 100
			file.Result = &result
			file.Error = ""
		}
		job.Results = append(job.Results, result)
	})
}

func (m *JobManager) MarkFileError(id string, index int, message string, result DocumentResult) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = "processing error"
	}
	result.Status = FileStatusError
	if result.Message == "" {
		result.Message = msg
	}
	m.withJob(id, func(job *GenerationJob) {
		if file := job.file(index); file != nil {
			file.Status = FileStatusError
			file.Step = "error"
			file.Message = msg
			file.Error = msg
			file.Percent = 100
			file.Result = &result
		}
		job.Results = append(job.Results, result)
	})
}

func (m *JobManager) withJob(id string, fn func(job *GenerationJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
}

func (job *GenerationJob) file(index int) *FileProgress {
	if index < 0 || index >= len(job.Files) {
		return nil
	}
	return &job.Files[index]
}

func (job *GenerationJob) clone() *GenerationJob {
	copyJob := *job
	copyJob.Files = make([]FileProgress, len(job.Files))
	for i, file := range job.Files {
		copyJob.Files[i] = file
		if file.Result != nil {
			res := *file.Result
			copyJob.Files[i].Result = &res
		}
	}
	copyJob.Results = append([]DocumentResult(nil), job.Results...)
	return &copyJob
}

func percent(current, total int) int {
	if total <= 0 || current <= 0 {
		return 0
	}
	if current >= total {
		return 100
	}
	return current * 100 / total
}
