package server

import (
	"encoding/json"

	"quill/internal/auth"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type loginArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserArgs struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token alongside the caller's identifiers.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (s *Server) opLogin(c *fiber.Ctx, _ auth.Identity, args json.RawMessage) error {
	var in loginArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	token, user, err := s.authService.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		Token:  token,
		UserID: formatID(user.ID),
		Email:  user.Email,
	})
}

func (s *Server) opCreateUser(c *fiber.Ctx, _ auth.Identity, args json.RawMessage) error {
	var in createUserArgs
	if err := decodeArgs(args, &in); err != nil {
		return err
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:    in.Email,
		Name:     in.Name,
		Password: in.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
		"user":    toUserView(user),
	})
}
