package server

import "github.com/gofiber/fiber/v2"

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.followService.Following(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(serializeAll(users))
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.followService.Followers(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(serializeAll(users))
}

// Follow handles POST /api/users/:id/following/:targetId
func (s *Server) Follow(c *fiber.Ctx) error {
	fromID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	toID, err := parseID(c, "targetId")
	if err != nil {
		return nil
	}

	edge, err := s.followService.Follow(c.UserContext(), fromID, toID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(edge.Serialize())
}

// Unfollow handles DELETE /api/users/:id/following/:targetId
func (s *Server) Unfollow(c *fiber.Ctx) error {
	fromID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	toID, err := parseID(c, "targetId")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), fromID, toID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
