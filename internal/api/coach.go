package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/emerge/internal/dashboard"
	"github.com/illegalcall/emerge/internal/models"
)

func (s *Server) handleCareerCoach(c *fiber.Ctx) error {
	var req models.CoachRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.svc.Coach.Ask(c.UserContext(), req.UserID, req.Message)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "", fiber.Map{"response": reply})
}

func (s *Server) handleCreateActivity(c *fiber.Ctx) error {
	var req models.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return s.respondError(c, err)
	}

	activity := &models.Activity{UserID: req.UserID, Type: req.Type, Title: req.Title}
	if err := s.svc.Activities.CreateActivity(c.UserContext(), activity); err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.APIResponse{
		Success: true,
		Message: "Activity recorded",
		Data:    activity,
	})
}

func (s *Server) handleListActivities(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	limit := c.QueryInt("limit", dashboard.RecentActivities)
	activities, err := s.svc.Activities.ListActivities(c.UserContext(), userID, limit)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "", activities)
}
