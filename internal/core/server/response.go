package server

import "github.com/gofiber/fiber/v2"

// Next steps offered to the client alongside every failure.
const (
	ActionRetry               = "retry"
	ActionBack                = "back"
	ActionChangePaymentMethod = "change_payment_method"
	ActionBrowseProducts      = "browse_products"
	ActionContactSupport      = "contact_support"
)

// MessageSomethingWentWrong is the generic message of unexpected failures.
const MessageSomethingWentWrong = "something_went_wrong"

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description or translation key.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
	// Actions lists what the client can do next; never empty.
	Actions []string `json:"actions"`
	// Fields maps form fields to validation keys.
	Fields map[string]string `json:"fields,omitempty"`
}

// RayID returns the request id set by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// Fail writes an ErrorResponse. Without explicit actions the client is offered a retry.
func Fail(c *fiber.Ctx, status int, message string, actions ...string) error {
	if len(actions) == 0 {
		actions = []string{ActionRetry}
	}
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   RayID(c),
		Actions: actions,
	})
}

// FailFields writes a 400 ErrorResponse carrying per-field validation keys.
func FailFields(c *fiber.Ctx, message string, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: message,
		RayID:   RayID(c),
		Actions: []string{ActionRetry},
		Fields:  fields,
	})
}

// LocalsUserID is the fiber locals key holding the authenticated user id.
const LocalsUserID = "user_id"

// UserID returns the authenticated user id, or "" for guests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}
