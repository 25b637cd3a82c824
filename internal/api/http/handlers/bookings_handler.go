package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/visitor-access/internal/api/dto"
	"github.com/spec-kit/visitor-access/internal/auth"
	"github.com/spec-kit/visitor-access/internal/service"
	apperrors "github.com/spec-kit/visitor-access/pkg/util"
)

// BookingsHandler exposes booking endpoints.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService}
}

// Create handles POST /bookings. The override flag is restricted to roles
// that may force-cancel conflicting bookings; by the time the resolver runs,
// the permission decision has already been made here.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.RoomID == "" || req.StartTime.IsZero() || req.DurationMinutes <= 0 {
		return fiber.NewError(http.StatusBadRequest, "room_id, start_time, duration_minutes required")
	}

	if req.Override {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok || !auth.CanOverride(principal.Role) {
			return apperrors.NewForbidden("override requires security or admin role")
		}
	}

	created, err := h.bookings.CreateBooking(c.UserContext(), service.BookingCreateInput{
		RoomID:          req.RoomID,
		HostStaffID:     req.HostStaffID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Purpose:         req.Purpose,
		Participants:    req.Participants,
		Override:        req.Override,
		OverrideReason:  req.OverrideReason,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingSummary(created)})
}

// Conflicts handles GET /bookings/conflicts?resource_id=&start_time=&duration_minutes=.
func (h *BookingsHandler) Conflicts(c *fiber.Ctx) error {
	resourceID := c.Query("resource_id")
	startRaw := c.Query("start_time")
	durationRaw := c.Query("duration_minutes")
	if resourceID == "" || startRaw == "" || durationRaw == "" {
		return fiber.NewError(http.StatusBadRequest, "resource_id, start_time, duration_minutes required")
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "start_time must be RFC3339")
	}
	duration, err := strconv.Atoi(durationRaw)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "duration_minutes must be an integer")
	}

	var excludeID *string
	if raw := c.Query("exclude_booking_id"); raw != "" {
		excludeID = &raw
	}

	conflicts, err := h.bookings.CheckConflicts(c.UserContext(), resourceID, start, duration, excludeID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.BookingSummaries(conflicts)})
}

// Get handles GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	booking, err := h.bookings.GetBooking(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingSummary(booking)})
}
