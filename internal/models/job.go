package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusDone   = "done"
	JobStatusFailed = "failed"
)

// ResearchJob is a research request queued for a background worker.
type ResearchJob struct {
	ID          string          `json:"id"`
	Request     ResearchRequest `json:"request"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// JobResult is written by the worker once a job has been processed.
type JobResult struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Response    *ResearchResponse `json:"response,omitempty"`
	Error       string            `json:"error,omitempty"`
	CompletedAt time.Time         `json:"completed_at"`
}

func NewResearchJob(req ResearchRequest) ResearchJob {
	return ResearchJob{
		ID:          uuid.New().String(),
		Request:     req,
		SubmittedAt: time.Now().UTC(),
	}
}
