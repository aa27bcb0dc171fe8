package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/emerge/internal/models"
)

func (s *Server) handleListGoals(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	goals, err := s.svc.Goals.ListGoals(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "", models.GoalViews(goals))
}

func (s *Server) handleCreateGoal(c *fiber.Ctx) error {
	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	g, err := s.svc.Goals.CreateGoal(c.UserContext(), req.UserID, req.Task, req.Completed)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.APIResponse{
		Success: true,
		Message: "Goal created successfully",
		Data:    g.View(),
	})
}

// handleUpdateGoal toggles completion. A completed goal is removed after the
// configured display delay.
func (s *Server) handleUpdateGoal(c *fiber.Ctx) error {
	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil || req.Completed == nil {
		return s.respondError(c, models.NewValidationError("completed must be a boolean"))
	}

	g, err := s.svc.Goals.ToggleCompletion(c.UserContext(), c.Params("id"), *req.Completed)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "Goal updated successfully", g.View())
}

// handleCompleteGoal completes the goal and answers once it has been removed.
// A goal reopened during the delay comes back in its current state.
func (s *Server) handleCompleteGoal(c *fiber.Ctx) error {
	g, err := s.svc.Goals.CompleteThenDelete(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.respondError(c, err)
	}
	view := g.View()
	if g.Completed {
		view.State = models.GoalStateDeleted
	}
	return ok(c, "Goal completed", view)
}

func (s *Server) handleDeleteGoal(c *fiber.Ctx) error {
	removed, err := s.svc.Goals.DeleteGoal(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.respondError(c, err)
	}
	if !removed {
		return s.respondError(c, models.NewNotFoundError("goal", c.Params("id")))
	}
	return ok(c, "Goal deleted successfully", nil)
}

func (s *Server) handleSuggestGoals(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	created, err := s.svc.Goals.SuggestGoals(c.UserContext(), userID, s.cfg.Goals.SuggestCount)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "Goal suggestions generated successfully", models.GoalViews(created))
}

func (s *Server) handleRefreshGoals(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	count := c.QueryInt("count", s.cfg.Goals.RefreshCount)
	fresh, err := s.svc.Goals.RefreshSuggestions(c.UserContext(), userID, count)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "Goals refreshed successfully", models.GoalViews(fresh))
}
