package routes

import (
	"clinicportal/cmd/internal/utils"
	"clinicportal/cmd/internal/utils/apierror"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireToken rejects requests without a valid bearer token and stores the
// caller's token data in the context for the handlers.
func RequireToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") {
				return c.JSON(401, apierror.InvalidAuthTokenError)
			}

			data, err := utils.ParseToken(strings.TrimSpace(raw), secret)
			if err != nil {
				return c.JSON(401, apierror.InvalidAuthTokenError)
			}

			c.Set(utils.TokenContextKey, data)
			return next(c)
		}
	}
}

// Register mounts every endpoint on e.
func Register(e *echo.Echo, apptRoutes *DefaultAppointmentRoute, userRoutes *DefaultUserRoute, secret string) {
	// Status catalog is public, the portal renders badges before login
	e.GET("/api/appointment-statuses", apptRoutes.GetStatuses)

	api := e.Group("/api", RequireToken(secret))

	// Appointments
	api.GET("/appointments", apptRoutes.GetAppointments)
	api.POST("/appointments", apptRoutes.CreateAppointment)
	api.GET("/appointments/:id", apptRoutes.GetAppointment)
	api.GET("/appointments/:id/transitions", apptRoutes.GetTransitions)
	api.PATCH("/appointments/:id/status", apptRoutes.ChangeStatus)
	api.DELETE("/appointments/:id", apptRoutes.DeleteAppointment)

	// Pseudo-entity "Calendar" to check which slots of a month are taken
	api.GET("/calendar", apptRoutes.GetCalendar)

	// Users
	api.GET("/users", userRoutes.GetUsers)
	api.GET("/users/:id", userRoutes.GetUser)
	api.POST("/users", userRoutes.CreateUser)
}
