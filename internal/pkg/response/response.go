// Package response renders the JSON envelope shared by every endpoint.
// Error messages are user-facing: the front office displays them as-is,
// so they carry no internal detail.
package response

import "github.com/gofiber/fiber/v2"

// Envelope is the wire shape of every response. Data is omitted on
// failures, Error on successes.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a 200 with the given payload
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 after a resource has been persisted
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Envelope{Error: message})
}

// BadRequest maps malformed input (unparseable body, bad amounts) to 400
func BadRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, message)
}

// Unauthorized maps missing or invalid credentials to 401
func Unauthorized(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnauthorized, message)
}

// Forbidden maps role-gate refusals to 403. The UI should not have
// offered the action; this is the backstop.
func Forbidden(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusForbidden, message)
}

// NotFound maps unknown entity IDs to 404
func NotFound(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusNotFound, message)
}

// Conflict maps operations refused by current state (terminal status,
// completed credit, taken email) to 409
func Conflict(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusConflict, message)
}

// UnprocessableEntity maps business-rule violations on well-formed
// input (a rejection without its mandatory comment) to 422
func UnprocessableEntity(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnprocessableEntity, message)
}

// InternalServerError maps everything unexpected to 500
func InternalServerError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message)
}
