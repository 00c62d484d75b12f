package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
)

const (
	PayloadField = "payload"

	DefaultResultPrefix = "research:result:"
)

var ErrMissingPayload = errors.New("missing payload field")

func EncodeJob(job models.ResearchJob) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode job: %w", err)
	}
	return string(data), nil
}

// DecodeJob reads a job from stream message values. A job without an id
// takes the stream message id.
func DecodeJob(messageID string, values map[string]any) (models.ResearchJob, error) {
	payload, ok := values[PayloadField].(string)
	if !ok {
		return models.ResearchJob{}, ErrMissingPayload
	}

	var job models.ResearchJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return models.ResearchJob{}, fmt.Errorf("failed to decode job: %w", err)
	}
	if job.ID == "" {
		job.ID = messageID
	}
	return job, nil
}

func ResultKey(prefix, jobID string) string {
	if prefix == "" {
		prefix = DefaultResultPrefix
	}
	return prefix + jobID
}
