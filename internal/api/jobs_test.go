package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobManagerLifecycle(t *testing.T) {
	m := NewJobManager()
	job := m.CreateJob("Biologie", []string{"a.pdf", "b.md"})
	assert.Equal(t, JobStatusPending, job.Status)

	m.MarkProcessing(job.ID)
	m.UpdateFileProgress(job.ID, 0, "generate", "Generating flashcards", 40, 100)
	m.MarkFileComplete(job.ID, 0, DocumentResult{Name: "a.pdf", CardCount: 4, Status: "ok"})
	m.MarkFileError(job.ID, 1, "", DocumentResult{Name: "b.md"})
	m.UpdateFileProgress(job.ID, 7, "ignored", "", 1, 1)
	m.MarkCompleted(job.ID)

	got, ok := m.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusComplete, got.Status)
	require.Len(t, got.Results, 2)
	assert.Equal(t, FileStatusError, got.Results[1].Status)
	assert.Equal(t, "processing error", got.Files[1].Error)

	// snapshots are detached from the stored job
	got.Files[0].Result.CardCount = 99
	again, _ := m.GetJob(job.ID)
	assert.Equal(t, 4, again.Files[0].Result.CardCount)
}

func TestJobManagerAllFilesFailed(t *testing.T) {
	m := NewJobManager()
	job := m.CreateJob("", []string{"x.txt"})
	m.MarkFileError(job.ID, 0, "document has no text", DocumentResult{Name: "x.txt"})
	m.MarkCompleted(job.ID)

	got, ok := m.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusFailed, got.Status)
	assert.NotEmpty(t, got.Error)

	_, ok = m.GetJob("missing")
	assert.False(t, ok)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(5, 0))
	assert.Equal(t, 0, percent(-1, 100))
	assert.Equal(t, 40, percent(40, 100))
	assert.Equal(t, 100, percent(150, 100))
}
