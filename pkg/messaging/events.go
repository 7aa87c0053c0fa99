package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types, used as routing keys
const (
	EventEmployeeCreated = "employee.created"
	EventEmployeeUpdated = "employee.updated"
	EventEmployeeDeleted = "employee.deleted"
)

// ExchangeEmployeeEvents is the default topic exchange
const ExchangeEmployeeEvents = "employee.events"

// Event is the envelope every message is wrapped in
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data any) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// EmployeeCreatedEvent is published after an employee and its passport and
// department were stored
type EmployeeCreatedEvent struct {
	EmployeeID   int64  `json:"employee_id"`
	CompanyID    int64  `json:"company_id"`
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
}

// EmployeeUpdatedEvent lists the JSON paths present in the applied patch
type EmployeeUpdatedEvent struct {
	EmployeeID int64    `json:"employee_id"`
	Fields     []string `json:"fields"`
}

// EmployeeDeletedEvent is published after the aggregate was removed
type EmployeeDeletedEvent struct {
	EmployeeID int64 `json:"employee_id"`
}
