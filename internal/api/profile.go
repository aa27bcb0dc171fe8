package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/emerge/internal/models"
)

func (s *Server) handleSubmitSurvey(c *fiber.Ctx) error {
	var req models.Survey
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid survey data"))
	}

	p, err := s.svc.Profiles.Submit(c.UserContext(), &req)
	if err != nil {
		return s.respondError(c, err)
	}

	return ok(c, "Survey submitted successfully", fiber.Map{
		"userId":     p.UserID,
		"hasProfile": true,
		"profile":    p,
	})
}

func (s *Server) handleGetUser(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	p, err := s.svc.Profiles.Get(c.UserContext(), userID)
	if err != nil {
		if models.IsProfileNotFound(err) {
			// the user exists but has not taken the survey yet
			return ok(c, "", fiber.Map{"id": userID, "hasProfile": false})
		}
		return s.respondError(c, err)
	}

	return ok(c, "", fiber.Map{
		"id":         userID,
		"hasProfile": true,
		"profile":    p,
		"summary":    p.Summary(),
	})
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	view, err := s.svc.Dashboard.BuildDashboard(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "", view)
}
