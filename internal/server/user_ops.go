package server

import (
	"encoding/json"

	"quill/internal/auth"

	"github.com/gofiber/fiber/v2"
)

type updateStatusArgs struct {
	Status string `json:"status"`
}

func (s *Server) opUser(c *fiber.Ctx, ident auth.Identity, _ json.RawMessage) error {
	user, err := s.userService.GetSelf(c.UserContext(), ident.UserID)
	if err != nil {
		return err
	}

	return c.JSON(toUserView(user))
}

func (s *Server) opUpdateStatus(c *fiber.Ctx, ident auth.Identity, args json.RawMessage) error {
	var in updateStatusArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	user, err := s.userService.UpdateStatus(c.UserContext(), ident.UserID, in.Status)
	if err != nil {
		return err
	}

	return c.JSON(toUserView(user))
}
