package web

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// ErrorHandler renders router-level errors, such as unknown routes and
// method mismatches, as RFC 7807 problem documents. Stage failures never
// reach it; they are written by respondError.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		problem := problems.NewStatusProblem(status).WithInstance(c.Path())

		switch status {
		case fiber.StatusNotFound:
			problem = problem.WithType("not_found").WithDetail("no route matches " + c.Method() + " " + c.Path())
		case fiber.StatusMethodNotAllowed:
			problem = problem.WithType("method_not_allowed").WithDetail(c.Method() + " is not allowed on " + c.Path())
		case fiber.StatusInternalServerError:
			logger.ErrorContext(c.Context(), "unhandled error", "path", c.Path(), "error", err)
			problem = problem.WithType("internal_error")
		default:
			problem = problem.WithDetail(fiberErr.Message)
		}

		return c.Status(status).JSON(problem, problems.ProblemMediaType)
	}
}
