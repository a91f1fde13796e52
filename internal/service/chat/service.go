package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/w-h-a/docchat/history"
	"github.com/w-h-a/docchat/internal/service/answer"
	"github.com/w-h-a/docchat/internal/service/intent"
)

const (
	StatusSuccess           = "success"
	StatusBookingSuccess    = "booking_success"
	StatusBookingIncomplete = "booking_incomplete"

	ConfirmationMessage = "Thank you! I have received your booking details. We will contact you soon to confirm the interview."
)

var (
	ErrSessionRequired = errors.New("session id is required")
	ErrQueryRequired   = errors.New("user query is required")
)

type Response struct {
	Status         string          `json:"status"`
	Message        string          `json:"message"`
	BookingDetails *intent.Booking `json:"booking_details,omitempty"`
}

type Service struct {
	classifier *intent.Service
	answerer   *answer.Service
	history    history.History
}

func (s *Service) HandleQuery(ctx context.Context, sessionId string, query string) (Response, error) {
	if len(strings.TrimSpace(sessionId)) == 0 {
		return Response{}, ErrSessionRequired
	}

	if len(strings.TrimSpace(query)) == 0 {
		return Response{}, ErrQueryRequired
	}

	switch r := s.classifier.Classify(ctx, query).(type) {
	case intent.Complete:
		booking := r.Booking
		slog.InfoContext(ctx, "interview booking received", "session", sessionId, "date", booking.Date, "time", booking.Time)
		s.record(ctx, sessionId, query, ConfirmationMessage)
		return Response{
			Status:         StatusBookingSuccess,
			Message:        ConfirmationMessage,
			BookingDetails: &booking,
		}, nil
	case intent.Incomplete:
		return s.incomplete(ctx, sessionId, query, r.Message()), nil
	case intent.Unprocessable:
		return s.incomplete(ctx, sessionId, query, r.Message()), nil
	default:
		history.SafeAppend(ctx, s.history, sessionId, history.RoleUser, query)
		reply := s.answerer.Answer(ctx, query, sessionId)
		history.SafeAppend(ctx, s.history, sessionId, history.RoleAssistant, reply)
		return Response{
			Status:  StatusSuccess,
			Message: reply,
		}, nil
	}
}

func (s *Service) History(ctx context.Context, sessionId string) []history.Turn {
	return history.SafeRead(ctx, s.history, sessionId)
}

func (s *Service) incomplete(ctx context.Context, sessionId string, query string, message string) Response {
	s.record(ctx, sessionId, query, message)
	return Response{
		Status:  StatusBookingIncomplete,
		Message: message,
	}
}

func (s *Service) record(ctx context.Context, sessionId string, query string, reply string) {
	history.SafeAppend(ctx, s.history, sessionId, history.RoleUser, query)
	history.SafeAppend(ctx, s.history, sessionId, history.RoleAssistant, reply)
}

func New(
	classifier *intent.Service,
	answerer *answer.Service,
	history history.History,
) *Service {
	return &Service{
		classifier: classifier,
		answerer:   answerer,
		history:    history,
	}
}
