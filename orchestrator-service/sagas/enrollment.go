package sagas

import (
	"time"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/pkg/errors"
)

// CourseEnrollmentSagaType identifies the course enrollment saga
const CourseEnrollmentSagaType = "course-enrollment"

// Step names recorded in the instance state
const (
	StepPayment = "payment"
	StepEnroll  = "enroll"
)

// EnrollmentRequest is the payload of the enrollment.requested trigger
type EnrollmentRequest struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// PaymentResult is the payload of payment.completed
type PaymentResult struct {
	PaymentID string `json:"payment_id"`
}

// PaymentFailure is the payload of payment.failed
type PaymentFailure struct {
	Reason string `json:"reason"`
}

// EnrollmentResult is the payload of enrollment.student.enrolled
type EnrollmentResult struct {
	EnrollmentID string `json:"enrollment_id"`
}

// EnrollmentFailure is the payload of enrollment.failed
type EnrollmentFailure struct {
	Reason string `json:"reason"`
}

// NewCourseEnrollment builds the course enrollment saga definition:
// take payment, enroll the student, confirm by notification; refund and
// cancel in reverse order when a later step fails.
func NewCourseEnrollment(timeout, compensationTimeout time.Duration) *saga.Definition {
	return &saga.Definition{
		SagaType:            CourseEnrollmentSagaType,
		Timeout:             timeout,
		CompensationTimeout: compensationTimeout,
		Reactions: []*saga.StepReaction{
			{
				TriggerEventType: events.EnrollmentRequestedEvent,
				StartsSaga:       true,
				Handler:          handleEnrollmentRequested,
			},
			{
				StepName:         StepPayment,
				TriggerEventType: events.PaymentCompletedEvent,
				Handler:          handlePaymentCompleted,
				Compensation: &saga.Compensation{
					Build:        buildPaymentRefund,
					AckEventType: events.PaymentRefundedEvent,
				},
			},
			{
				TriggerEventType: events.PaymentFailedEvent,
				Handler:          handlePaymentFailed,
			},
			{
				StepName:         StepEnroll,
				TriggerEventType: events.StudentEnrolledEvent,
				Handler:          handleStudentEnrolled,
				Compensation: &saga.Compensation{
					Build:        buildEnrollmentCancel,
					AckEventType: events.EnrollmentCancelledEvent,
				},
			},
			{
				TriggerEventType: events.EnrollmentFailedEvent,
				Handler:          handleEnrollmentFailed,
			},
		},
	}
}

func handleEnrollmentRequested(_ map[string]interface{}, event *events.Event) (*saga.StepResult, error) {
	var request EnrollmentRequest
	if err := event.UnmarshalPayload(&request); err != nil {
		return nil, errors.Wrap(err, "invalid enrollment request")
	}

	if request.StudentID == "" || request.CourseID == "" {
		return nil, errors.New("enrollment request requires student_id and course_id")
	}

	fee := models.NewMoney(request.Amount, request.Currency)
	if !fee.IsPositive() {
		return nil, errors.New("enrollment request requires a positive fee")
	}

	return &saga.StepResult{
		Data: map[string]interface{}{
			"student_id": request.StudentID,
			"course_id":  request.CourseID,
			"amount":     request.Amount,
			"currency":   request.Currency,
		},
		Commands: []*events.Event{
			events.NewEvent("", events.PaymentInitiateCommand, map[string]interface{}{
				"student_id": request.StudentID,
				"course_id":  request.CourseID,
				"amount":     request.Amount,
				"currency":   request.Currency,
			}),
		},
	}, nil
}

func handlePaymentCompleted(data map[string]interface{}, event *events.Event) (*saga.StepResult, error) {
	var result PaymentResult
	if err := event.UnmarshalPayload(&result); err != nil {
		return nil, errors.Wrap(err, "invalid payment result")
	}

	if result.PaymentID == "" {
		return nil, errors.New("payment result requires payment_id")
	}

	return &saga.StepResult{
		Data: map[string]interface{}{
			"payment_id": result.PaymentID,
		},
		Commands: []*events.Event{
			events.NewEvent("", events.EnrollStudentCommand, map[string]interface{}{
				"student_id": data["student_id"],
				"course_id":  data["course_id"],
			}),
		},
	}, nil
}

func handlePaymentFailed(_ map[string]interface{}, event *events.Event) (*saga.StepResult, error) {
	var failure PaymentFailure
	if err := event.UnmarshalPayload(&failure); err != nil {
		return nil, errors.Wrap(err, "invalid payment failure")
	}

	return &saga.StepResult{
		Outcome: saga.OutcomeFailed,
		Reason:  "payment failed: " + failure.Reason,
	}, nil
}

func handleStudentEnrolled(data map[string]interface{}, event *events.Event) (*saga.StepResult, error) {
	var result EnrollmentResult
	if err := event.UnmarshalPayload(&result); err != nil {
		return nil, errors.Wrap(err, "invalid enrollment result")
	}

	return &saga.StepResult{
		Data: map[string]interface{}{
			"enrollment_id": result.EnrollmentID,
		},
		Commands: []*events.Event{
			events.NewEvent("", events.EnrollmentConfirmedNotificationCommand, map[string]interface{}{
				"student_id":    data["student_id"],
				"course_id":     data["course_id"],
				"enrollment_id": result.EnrollmentID,
			}),
		},
		Outcome: saga.OutcomeCompleted,
	}, nil
}

func handleEnrollmentFailed(_ map[string]interface{}, event *events.Event) (*saga.StepResult, error) {
	var failure EnrollmentFailure
	if err := event.UnmarshalPayload(&failure); err != nil {
		return nil, errors.Wrap(err, "invalid enrollment failure")
	}

	return &saga.StepResult{
		Outcome: saga.OutcomeFailed,
		Reason:  "enrollment failed: " + failure.Reason,
	}, nil
}

func buildPaymentRefund(data map[string]interface{}) *events.Event {
	return events.NewEvent("", events.PaymentRefundRequestedCommand, map[string]interface{}{
		"payment_id": data["payment_id"],
		"amount":     data["amount"],
		"currency":   data["currency"],
	})
}

func buildEnrollmentCancel(data map[string]interface{}) *events.Event {
	return events.NewEvent("", events.EnrollmentCancelRequestedCommand, map[string]interface{}{
		"student_id":    data["student_id"],
		"course_id":     data["course_id"],
		"enrollment_id": data["enrollment_id"],
	})
}
