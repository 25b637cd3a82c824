package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/visitor-access/internal/access"
	"github.com/spec-kit/visitor-access/internal/api/dto"
	"github.com/spec-kit/visitor-access/internal/auth"
	"github.com/spec-kit/visitor-access/internal/domain"
	"github.com/spec-kit/visitor-access/internal/service"
)

// AccessHandler exposes floor-access evaluation and grant management.
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler constructs handler.
func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{access: accessService}
}

// Evaluate handles POST /access/evaluate.
func (h *AccessHandler) Evaluate(c *fiber.Ctx) error {
	var req dto.EvaluateAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.GranteeID == "" {
		return fiber.NewError(http.StatusBadRequest, "grantee_id required")
	}

	decision, err := h.access.EvaluateFloorAccess(c.UserContext(), access.Request{
		GranteeID:   req.GranteeID,
		FloorNumber: req.FloorNumber,
		Building:    req.Building,
		Zone:        req.Zone,
	}, req.At)
	if err != nil {
		return err
	}

	resp := dto.AccessDecisionResponse{
		Granted: decision.Granted,
		Reason:  string(decision.Reason),
	}
	if decision.MatchedGrant != nil {
		resp.MatchedGrantID = decision.MatchedGrant.ID
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateGrant handles POST /access/grants.
func (h *AccessHandler) CreateGrant(c *fiber.Ctx) error {
	var req dto.CreateGrantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var allowedFrom, allowedTo *domain.TimeOfDay
	if req.AllowedFromTime != nil {
		tod, err := domain.ParseTimeOfDay(*req.AllowedFromTime)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		allowedFrom = &tod
	}
	if req.AllowedToTime != nil {
		tod, err := domain.ParseTimeOfDay(*req.AllowedToTime)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		allowedTo = &tod
	}

	grantedBy := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		grantedBy = principal.Staff.ID
	}

	grant, err := domain.NewAccessGrant(req.GranteeID, req.FloorNumber, req.Building, req.Zone,
		req.AccessType, allowedFrom, allowedTo, req.ValidFrom, req.ValidUntil, grantedBy)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.access.CreateGrant(c.UserContext(), grant); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"grant_id": grant.ID}})
}

// RevokeGrant handles DELETE /access/grants/:id.
func (h *AccessHandler) RevokeGrant(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(http.StatusBadRequest, "grant id required")
	}
	if err := h.access.RevokeGrant(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"grant_id": id, "is_active": false}})
}
