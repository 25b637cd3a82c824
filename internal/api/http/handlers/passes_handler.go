package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/visitor-access/internal/api/dto"
	"github.com/spec-kit/visitor-access/internal/service"
)

// PassesHandler exposes visitor pass issuance.
type PassesHandler struct {
	passes *service.PassService
}

// NewPassesHandler constructs handler.
func NewPassesHandler(passService *service.PassService) *PassesHandler {
	return &PassesHandler{passes: passService}
}

// Issue handles POST /passes.
func (h *PassesHandler) Issue(c *fiber.Ctx) error {
	var req dto.IssuePassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.VisitorID == "" {
		return fiber.NewError(http.StatusBadRequest, "visitor_id required")
	}

	var expiresAt time.Time
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	pass, err := h.passes.IssuePass(c.UserContext(), req.VisitorID, expiresAt)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.IssuePassResponse{
			Token:        pass.Token,
			CredentialID: pass.CredentialID,
			ExpiresAt:    pass.ExpiresAt,
			QRPNGBase64:  base64.StdEncoding.EncodeToString(pass.QRPNG),
		},
	})
}
