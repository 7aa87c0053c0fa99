package events

import (
	"context"

	"github.com/emsvc/employee-service/internal/employee/domain"
	"github.com/emsvc/employee-service/pkg/config"
	"github.com/emsvc/employee-service/pkg/logger"
	"github.com/emsvc/employee-service/pkg/messaging"
)

// Sender is satisfied by *messaging.Publisher
type Sender interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// EmployeeEventPublisher publishes employee lifecycle events. Failures are
// logged and never returned.
type EmployeeEventPublisher struct {
	sender Sender
	logger *logger.Logger
}

// NewEmployeeEventPublisher declares the configured exchange on rmq
func NewEmployeeEventPublisher(rmq *messaging.RabbitMQ, cfg *config.MessagingConfig, log *logger.Logger) (*EmployeeEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, cfg.Exchange, config.ServiceName, log)
	if err != nil {
		return nil, err
	}
	return NewWithSender(publisher, log), nil
}

// NewWithSender wraps any Sender
func NewWithSender(sender Sender, log *logger.Logger) *EmployeeEventPublisher {
	return &EmployeeEventPublisher{
		sender: sender,
		logger: log.WithComponent("events"),
	}
}

// PublishEmployeeCreated publishes an employee created event
func (p *EmployeeEventPublisher) PublishEmployeeCreated(ctx context.Context, emp *domain.Employee) {
	data := messaging.EmployeeCreatedEvent{
		EmployeeID:   emp.ID,
		CompanyID:    emp.CompanyID,
		DepartmentID: emp.DepartmentID,
		Name:         emp.Name + " " + emp.Surname,
	}

	if err := p.sender.Publish(ctx, messaging.EventEmployeeCreated, data); err != nil {
		p.logger.Error().Err(err).Int64("employee_id", emp.ID).Msg("failed to publish employee created event")
	}
}

// PublishEmployeeUpdated publishes the list of fields present in patch
func (p *EmployeeEventPublisher) PublishEmployeeUpdated(ctx context.Context, id int64, patch *domain.UpdateEmployeeRequest) {
	data := messaging.EmployeeUpdatedEvent{
		EmployeeID: id,
		Fields:     ChangedFields(patch),
	}

	if err := p.sender.Publish(ctx, messaging.EventEmployeeUpdated, data); err != nil {
		p.logger.Error().Err(err).Int64("employee_id", id).Msg("failed to publish employee updated event")
	}
}

// PublishEmployeeDeleted publishes an employee deleted event
func (p *EmployeeEventPublisher) PublishEmployeeDeleted(ctx context.Context, id int64) {
	data := messaging.EmployeeDeletedEvent{EmployeeID: id}

	if err := p.sender.Publish(ctx, messaging.EventEmployeeDeleted, data); err != nil {
		p.logger.Error().Err(err).Int64("employee_id", id).Msg("failed to publish employee deleted event")
	}
}

// ChangedFields returns the dotted JSON paths present in patch
func ChangedFields(patch *domain.UpdateEmployeeRequest) []string {
	fields := []string{}
	if patch == nil {
		return fields
	}

	if patch.Name != nil {
		fields = append(fields, "name")
	}
	if patch.Surname != nil {
		fields = append(fields, "surname")
	}
	if patch.Phone != nil {
		fields = append(fields, "phone")
	}
	if patch.CompanyID != nil {
		fields = append(fields, "company_id")
	}
	if pp := patch.Passport; pp != nil {
		if pp.Type != nil {
			fields = append(fields, "passport.type")
		}
		if pp.Number != nil {
			fields = append(fields, "passport.number")
		}
	}
	if dp := patch.Department; dp != nil {
		if dp.Name != nil {
			fields = append(fields, "department.name")
		}
		if dp.Phone != nil {
			fields = append(fields, "department.phone")
		}
	}
	return fields
}

// NoopPublisher drops every event. Used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishEmployeeCreated(context.Context, *domain.Employee)                     {}
func (NoopPublisher) PublishEmployeeUpdated(context.Context, int64, *domain.UpdateEmployeeRequest) {}
func (NoopPublisher) PublishEmployeeDeleted(context.Context, int64)                                {}
