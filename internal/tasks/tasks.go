package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeContactNotify     = "contact:notify"
	TypeSitemapRegenerate = "sitemap:regenerate"
)

// TaskPayload is the common payload for all tasks
type TaskPayload struct {
	ContactID string `json:"contact_id,omitempty"`
}

// NewContactNotifyTask creates a task to notify operators of a new contact message
func NewContactNotifyTask(contactID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{
		ContactID: contactID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeContactNotify, payload), nil
}

// NewSitemapRegenerateTask creates a task to rebuild sitemap.xml
func NewSitemapRegenerateTask() (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeSitemapRegenerate, payload), nil
}

// ParseTaskPayload parses task payload from Asynq task
func ParseTaskPayload(task *asynq.Task) (TaskPayload, error) {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
