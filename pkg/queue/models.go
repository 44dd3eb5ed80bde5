// Package queue defines the jobs exchanged between the API and the
// background worker.
package queue

import (
	"encoding/json"
	"time"

	"github.com/sunvale/sevendays/pkg/lang"
)

// SummaryJob asks the worker to generate a player's final summary after
// the seventh day completes. Jobs are idempotent: the worker skips a
// player whose summary already exists.
type SummaryJob struct {
	JobID    string    `json:"job_id"`
	PlayerID string    `json:"player_id"`
	Lang     lang.Lang `json:"lang"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// ToJSON serializes the job for Redis.
func (j *SummaryJob) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

// FromJSON parses a job from Redis.
func FromJSON(data []byte) (*SummaryJob, error) {
	var j SummaryJob
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
