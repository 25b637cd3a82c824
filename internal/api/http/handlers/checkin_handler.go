package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/visitor-access/internal/api/dto"
	"github.com/spec-kit/visitor-access/internal/service"
)

// CheckInHandler exposes the terminal check-in endpoint.
type CheckInHandler struct {
	checkin *service.CheckInService
}

// NewCheckInHandler constructs handler.
func NewCheckInHandler(checkinService *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkin: checkinService}
}

// CheckIn handles POST /check-in.
func (h *CheckInHandler) CheckIn(c *fiber.Ctx) error {
	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	result, err := h.checkin.CheckIn(c.UserContext(), req.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.CheckInResponse{
			VisitorID:   result.Visitor.ID,
			VisitorName: result.Visitor.Name,
			BookingID:   result.Booking.ID,
			HostStaffID: result.Visitor.HostStaffID,
			CheckedInAt: result.CheckedInAt,
		},
	})
}

// CheckOut handles POST /visitors/:id/check-out.
func (h *CheckInHandler) CheckOut(c *fiber.Ctx) error {
	visitorID := c.Params("id")
	if visitorID == "" {
		return fiber.NewError(http.StatusBadRequest, "visitor id required")
	}
	if err := h.checkin.CheckOut(c.UserContext(), visitorID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"visitor_id": visitorID, "status": "CHECKED_OUT"}})
}
