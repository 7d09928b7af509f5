package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "internship-tracker"
	EventVersion = "1.0"
)

type EventType string

const (
	ApplicationStatusChanged EventType = "application.status_changed"
	NoteAdded                EventType = "application.note_added"
	JobCreated               EventType = "job.created"
	JobUpdated               EventType = "job.updated"
	JobDeleted               EventType = "job.deleted"
)

// Event is the envelope published for every domain change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ===== PAYLOADS =====

type ApplicationStatusChangedData struct {
	ApplicationID  uint       `json:"application_id"`
	StudentID      uint       `json:"student_id"`
	JobID          uint       `json:"job_id"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	Status         string     `json:"status"`
	AppliedOn      *time.Time `json:"applied_on,omitempty"`
}

type NoteAddedData struct {
	NoteID        uint `json:"note_id"`
	ApplicationID uint `json:"application_id"`
	StudentID     uint `json:"student_id"`
	FolderID      uint `json:"folder_id"`
}

type JobData struct {
	JobID       uint   `json:"job_id"`
	CompanyName string `json:"company_name,omitempty"`
	Role        string `json:"role,omitempty"`
	ActorID     uint   `json:"actor_id"`
}
