package server

import (
	"encoding/json"
	"fmt"
	"strconv"

	"quill/internal/auth"
	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// queryRequest is the body of every call to the dispatch endpoint.
type queryRequest struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args"`
}

// operation is one named entry in the dispatch table. Whether a caller must be
// authenticated is declared here, per operation, rather than implied by
// route-level middleware.
type operation struct {
	requiresAuth bool
	handle       func(c *fiber.Ctx, ident auth.Identity, args json.RawMessage) error
}

func (s *Server) operations() map[string]operation {
	return map[string]operation{
		"login":        {requiresAuth: false, handle: s.opLogin},
		"createUser":   {requiresAuth: false, handle: s.opCreateUser},
		"createPost":   {requiresAuth: true, handle: s.opCreatePost},
		"posts":        {requiresAuth: true, handle: s.opPosts},
		"post":         {requiresAuth: true, handle: s.opPost},
		"updatePost":   {requiresAuth: true, handle: s.opUpdatePost},
		"deletePost":   {requiresAuth: true, handle: s.opDeletePost},
		"user":         {requiresAuth: true, handle: s.opUser},
		"updateStatus": {requiresAuth: true, handle: s.opUpdateStatus},
	}
}

// HandleQuery handles POST /api/query. It resolves the caller's identity,
// selects the named operation, enforces its declared auth requirement, and
// runs it. Errors surface as the standard envelope with whatever status the
// failure carries.
func (s *Server) HandleQuery(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, &models.AppError{
			Kind:    models.KindValidation,
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	op, known := s.operations()[req.Operation]
	if !known {
		return models.RespondWithError(c, &models.AppError{
			Kind:    models.KindValidation,
			Status:  fiber.StatusBadRequest,
			Message: fmt.Sprintf("Unknown operation %q", req.Operation),
		})
	}

	ident, authenticated := s.identityFromRequest(c)
	if op.requiresAuth && !authenticated {
		err := models.NewUnauthenticatedError("Authentication required")
		s.recordOperation(req.Operation, err.Status)
		return models.RespondWithError(c, err)
	}

	if err := op.handle(c, ident, req.Args); err != nil {
		status := models.StatusOf(err)
		if status == fiber.StatusInternalServerError {
			middleware.Logger.ErrorContext(c.UserContext(), "operation failed",
				"operation", req.Operation, "error", err)
		}
		s.recordOperation(req.Operation, status)
		return models.RespondWithError(c, err)
	}

	s.recordOperation(req.Operation, c.Response().StatusCode())
	return nil
}

func (s *Server) recordOperation(name string, status int) {
	middleware.OperationCalls.WithLabelValues(name, strconv.Itoa(status)).Inc()
}

// decodeArgs unmarshals an operation's typed arguments.
func decodeArgs(args json.RawMessage, dest any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, dest); err != nil {
		return &models.AppError{
			Kind:    models.KindValidation,
			Status:  fiber.StatusBadRequest,
			Message: "Invalid arguments",
			Err:     err,
		}
	}
	return nil
}

// parsePostID converts a caller-supplied opaque identifier into a store key.
// Anything that cannot be a key names no post, so it reads as not found.
func parsePostID(id string) (uint, error) {
	parsed, err := strconv.ParseUint(id, 10, 32)
	if err != nil || parsed == 0 {
		return 0, models.NewNotFoundError("Post", id)
	}
	return uint(parsed), nil
}
