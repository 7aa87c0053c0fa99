package events_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/emsvc/employee-service/internal/employee/domain"
	"github.com/emsvc/employee-service/internal/employee/events"
	"github.com/emsvc/employee-service/pkg/logger"
	"github.com/emsvc/employee-service/pkg/messaging"
	"github.com/emsvc/employee-service/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeEventPublisher_Created(t *testing.T) {
	pub := testutil.NewMockPublisher()
	p := events.NewWithSender(pub, logger.Nop())

	p.PublishEmployeeCreated(context.Background(), &domain.Employee{
		ID: 5, Name: "Ivan", Surname: "Petrov", CompanyID: 2, DepartmentID: 9,
	})

	recorded := pub.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, messaging.EventEmployeeCreated, recorded[0].Type)
	assert.Equal(t, messaging.EmployeeCreatedEvent{
		EmployeeID: 5, CompanyID: 2, DepartmentID: 9, Name: "Ivan Petrov",
	}, recorded[0].Payload)
}

func TestEmployeeEventPublisher_Updated(t *testing.T) {
	pub := testutil.NewMockPublisher()
	p := events.NewWithSender(pub, logger.Nop())

	p.PublishEmployeeUpdated(context.Background(), 3, &domain.UpdateEmployeeRequest{
		Phone:    testutil.PtrString("1"),
		Passport: &domain.PassportPatch{Number: testutil.PtrString("2")},
	})

	recorded := pub.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, messaging.EventEmployeeUpdated, recorded[0].Type)
	assert.Equal(t, messaging.EmployeeUpdatedEvent{
		EmployeeID: 3, Fields: []string{"phone", "passport.number"},
	}, recorded[0].Payload)
}

func TestEmployeeEventPublisher_Deleted(t *testing.T) {
	pub := testutil.NewMockPublisher()
	p := events.NewWithSender(pub, logger.Nop())

	p.PublishEmployeeDeleted(context.Background(), 8)

	pub.AssertEventPublished(t, messaging.EventEmployeeDeleted)
	assert.Equal(t, messaging.EmployeeDeletedEvent{EmployeeID: 8}, pub.Events()[0].Payload)
}

func TestEmployeeEventPublisher_FailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	pub := testutil.NewMockPublisher()
	pub.Err = fmt.Errorf("channel closed")
	p := events.NewWithSender(pub, logger.NewWithWriter(&buf, "test"))

	assert.NotPanics(t, func() {
		p.PublishEmployeeDeleted(context.Background(), 8)
	})
	assert.Contains(t, buf.String(), "failed to publish employee deleted event")
	assert.Contains(t, buf.String(), "channel closed")
	pub.AssertNoEventsPublished(t)
}

func TestChangedFields(t *testing.T) {
	tests := []struct {
		name  string
		patch *domain.UpdateEmployeeRequest
		want  []string
	}{
		{"nil patch", nil, []string{}},
		{"empty patch", &domain.UpdateEmployeeRequest{}, []string{}},
		{
			name: "every field",
			patch: &domain.UpdateEmployeeRequest{
				Name:       testutil.PtrString("a"),
				Surname:    testutil.PtrString("b"),
				Phone:      testutil.PtrString("c"),
				CompanyID:  testutil.PtrInt64(1),
				Passport:   &domain.PassportPatch{Type: testutil.PtrString("d"), Number: testutil.PtrString("e")},
				Department: &domain.DepartmentPatch{Name: testutil.PtrString("f"), Phone: testutil.PtrString("g")},
			},
			want: []string{
				"name", "surname", "phone", "company_id",
				"passport.type", "passport.number",
				"department.name", "department.phone",
			},
		},
		{
			name:  "empty nested object",
			patch: &domain.UpdateEmployeeRequest{Department: &domain.DepartmentPatch{}},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, events.ChangedFields(tt.patch))
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	var p events.NoopPublisher
	assert.NotPanics(t, func() {
		p.PublishEmployeeCreated(context.Background(), &domain.Employee{})
		p.PublishEmployeeUpdated(context.Background(), 1, nil)
		p.PublishEmployeeDeleted(context.Background(), 1)
	})
}
