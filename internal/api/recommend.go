package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleCourseRecommendation(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	p, err := s.svc.Profiles.Get(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "", fiber.Map{"course": s.svc.Recommend.Course(c.UserContext(), p)})
}

func (s *Server) handlePersonalizedRecommendations(c *fiber.Ctx) error {
	userID, err := s.userID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	p, err := s.svc.Profiles.Get(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return ok(c, "", fiber.Map{"video": s.svc.Recommend.Video(c.UserContext(), p)})
}

func (s *Server) handleTrends(c *fiber.Ctx) error {
	subject, err := url.PathUnescape(c.Params("subject"))
	if err != nil {
		subject = c.Params("subject")
	}
	return ok(c, "", s.svc.Recommend.Trends(subject))
}
