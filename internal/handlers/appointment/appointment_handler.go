// internal/handlers/appointment/appointment_handler.go
package appointment

import (
	"context"
	"net/http"

	"storefront-client/internal/domain/appointment"
	"storefront-client/internal/pkg/response"
	"storefront-client/internal/transport/apiclient"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentService interface {
	Book(ctx context.Context, req appointment.Request) error
	Mine(ctx context.Context) ([]appointment.Appointment, error)
	All(ctx context.Context) ([]appointment.Appointment, error)
	SetStatus(ctx context.Context, id string, status appointment.Status) error
	Delete(ctx context.Context, id string) error
}

type AppointmentHandler struct {
	appointments AppointmentService
	logger       *zap.Logger
}

func NewAppointmentHandler(appointments AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, logger: logger}
}

// GetSlots lists the bookable times of day.
func (h *AppointmentHandler) GetSlots(c *gin.Context) {
	response.Success(c, http.StatusOK, "available times", gin.H{
		"times": appointment.AllowedTimes(),
	})
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req appointment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid appointment request", err)
		return
	}

	if err := h.appointments.Book(c.Request.Context(), req); err != nil {
		msg := apiclient.UpstreamMessage(err)
		if msg == "" {
			msg = "Something went wrong, please try again."
		}
		response.FromError(c, msg, err)
		return
	}

	response.Success(c, http.StatusCreated, "Appointment booked successfully!", req)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	list, err := h.appointments.Mine(c.Request.Context())
	if err != nil {
		response.FromError(c, "Could not load your appointments.", err)
		return
	}
	response.Success(c, http.StatusOK, "appointments", gin.H{"appointments": list})
}

// ListAll backs the admin appointment screen.
func (h *AppointmentHandler) ListAll(c *gin.Context) {
	list, err := h.appointments.All(c.Request.Context())
	if err != nil {
		response.FromError(c, "Could not load appointments.", err)
		return
	}
	response.Success(c, http.StatusOK, "appointments", gin.H{"appointments": list})
}

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	var req appointment.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid status update", err)
		return
	}

	id := c.Param("id")
	if err := h.appointments.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		response.FromError(c, upstreamOr(err, "Could not update the appointment."), err)
		return
	}
	response.Success(c, http.StatusOK, "Appointment status updated.", gin.H{"id": id, "status": req.Status})
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.appointments.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, upstreamOr(err, "Could not delete the appointment."), err)
		return
	}
	response.Success(c, http.StatusOK, "Appointment deleted.", gin.H{"id": id})
}

func upstreamOr(err error, fallback string) string {
	if msg := apiclient.UpstreamMessage(err); msg != "" {
		return msg
	}
	return fallback
}
