// internal/service/appointment/appointment.go
package appointment

import (
	"context"
	"fmt"
	"strings"

	"storefront-client/internal/domain/appointment"
	xerrors "storefront-client/internal/pkg/errors"
	"storefront-client/internal/guard"
	"storefront-client/internal/transport/apiclient"
	"storefront-client/internal/ui"

	"go.uber.org/zap"
)

const (
	msgBooked      = "Appointment booked successfully!"
	msgBookingFail = "Something went wrong, please try again."
	msgStatusSaved = "Appointment status updated."
	msgDeleted     = "Appointment deleted."
	msgManageFail  = "Could not update the appointment, please try again."
)

type AppointmentAPI interface {
	CreateAppointment(ctx context.Context, req appointment.Request) error
	MyAppointments(ctx context.Context) ([]appointment.Appointment, error)
	Appointments(ctx context.Context) ([]appointment.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status appointment.Status) error
	DeleteAppointment(ctx context.Context, id string) error
}

type Service struct {
	api      AppointmentAPI
	authz    *guard.Authorizer
	notifier ui.Notifier
	logger   *zap.Logger
}

func NewService(api AppointmentAPI, authz *guard.Authorizer, notifier ui.Notifier, logger *zap.Logger) *Service {
	return &Service{api: api, authz: authz, notifier: notifier, logger: logger}
}

// Book validates the requested slot and submits it.
func (s *Service) Book(ctx context.Context, req appointment.Request) error {
	if d := s.authz.Check(guard.PolicyAuthenticated); !d.Allowed() {
		return fmt.Errorf("%w: booking requires a signed-in session (%s)", xerrors.ErrUnauthorized, d.Outcome)
	}

	if err := validate(req); err != nil {
		return err
	}

	if err := s.api.CreateAppointment(ctx, req); err != nil {
		msg := apiclient.UpstreamMessage(err)
		if msg == "" {
			msg = msgBookingFail
		}
		s.logger.Error("failed to book appointment",
			zap.String("date", req.Date),
			zap.String("time", req.Time),
			zap.Error(err),
		)
		s.notifier.Notify(ui.NewNotice(ui.NoticeError, msg))
		return xerrors.Wrap(err, "failed to book appointment")
	}

	s.logger.Info("appointment booked", zap.String("date", req.Date), zap.String("time", req.Time))
	s.notifier.Notify(ui.NewNotice(ui.NoticeSuccess, msgBooked))
	return nil
}

func validate(req appointment.Request) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("%w: name and phone are required", xerrors.ErrInvalidInput)
	}
	if _, err := appointment.ParseDate(req.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", xerrors.ErrInvalidInput)
	}
	if !appointment.IsAllowedTime(req.Time) {
		return fmt.Errorf("%w: %q", xerrors.ErrInvalidSlot, req.Time)
	}
	return nil
}

// Mine lists the signed-in user's bookings.
func (s *Service) Mine(ctx context.Context) ([]appointment.Appointment, error) {
	if err := s.require(guard.PolicyAuthenticated); err != nil {
		return nil, err
	}
	list, err := s.api.MyAppointments(ctx)
	if err != nil {
		s.logger.Error("failed to load appointments", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to load appointments")
	}
	return list, nil
}

// All lists every booking for the admin screen.
func (s *Service) All(ctx context.Context) ([]appointment.Appointment, error) {
	if err := s.require(guard.PolicyAdmin); err != nil {
		return nil, err
	}
	list, err := s.api.Appointments(ctx)
	if err != nil {
		s.logger.Error("failed to load all appointments", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to load appointments")
	}
	return list, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status appointment.Status) error {
	if err := s.require(guard.PolicyAdmin); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown appointment status %q", xerrors.ErrInvalidInput, status)
	}

	if err := s.api.UpdateAppointmentStatus(ctx, id, status); err != nil {
		s.manageFailed("failed to update appointment status", id, err)
		return xerrors.Wrap(err, "failed to update appointment status")
	}

	s.logger.Info("appointment status updated", zap.String("id", id), zap.String("status", string(status)))
	s.notifier.Notify(ui.NewNotice(ui.NoticeSuccess, msgStatusSaved))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.require(guard.PolicyAdmin); err != nil {
		return err
	}

	if err := s.api.DeleteAppointment(ctx, id); err != nil {
		s.manageFailed("failed to delete appointment", id, err)
		return xerrors.Wrap(err, "failed to delete appointment")
	}

	s.logger.Info("appointment deleted", zap.String("id", id))
	s.notifier.Notify(ui.NewNotice(ui.NoticeSuccess, msgDeleted))
	return nil
}

func (s *Service) require(policy guard.Policy) error {
	d := s.authz.Check(policy)
	if d.Allowed() {
		return nil
	}
	return fmt.Errorf("%w: %s access required (%s)", xerrors.ErrUnauthorized, policy, d.Outcome)
}

func (s *Service) manageFailed(msg, id string, err error) {
	notice := apiclient.UpstreamMessage(err)
	if notice == "" {
		notice = msgManageFail
	}
	s.logger.Error(msg, zap.String("id", id), zap.Error(err))
	s.notifier.Notify(ui.NewNotice(ui.NoticeError, notice))
}
