package server

import (
	"fotogram/internal/models"
	"fotogram/internal/service"

	"github.com/gofiber/fiber/v2"
)

type addMediaRequest struct {
	Type string `json:"type" validate:"required,max=50"`
	URL  string `json:"url" validate:"required,url"`
}

// GetPostMedia handles GET /api/posts/:id/media
func (s *Server) GetPostMedia(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	media, err := s.postService.PostMedia(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(serializeAll(media))
}

// AddMedia handles POST /api/posts/:id/media
func (s *Server) AddMedia(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req addMediaRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	media, err := s.mediaService.AddMedia(c.UserContext(), service.AddMediaInput{
		PostID: postID,
		Type:   models.MediaType(req.Type),
		URL:    req.URL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(media.Serialize())
}

// DeleteMedia handles DELETE /api/media/:id
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.mediaService.DeleteMedia(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
