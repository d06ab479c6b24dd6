package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"foodlink/internal/auth"
	"foodlink/internal/cache"
	"foodlink/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	tokens *auth.TokenService,
	cacheClient *cache.Client,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	donationHandler *handler.DonationHandler,
	appointmentHandler *handler.AppointmentHandler,
	feed *handler.DonationFeed,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		status := map[string]string{"status": "ok", "cache": "down"}
		if cacheClient.Ping(c.Request().Context()) {
			status["cache"] = "ok"
		}
		return c.JSON(http.StatusOK, status)
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws/donations", feed.Handle)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require JWT authentication). Tokens are validated by
	// the same service that issues them so the claims land in the context as
	// *auth.Claims.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return tokens.ValidateToken(tokenString)
		},
	}))

	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateMe)
	secured.PUT("/me/password", authHandler.ChangePassword)

	// Donation routes
	secured.POST("/donations", donationHandler.Create)
	secured.GET("/donations", donationHandler.ListAvailable)
	secured.GET("/donations/mine", donationHandler.ListMine)
	secured.GET("/donations/:id", donationHandler.Get)
	secured.POST("/donations/:id/accept", donationHandler.Accept)
	secured.POST("/donations/:id/cancel", donationHandler.Cancel)
	secured.POST("/donations/:id/review", donationHandler.Review)

	// Appointment routes
	secured.POST("/donations/:id/appointment", appointmentHandler.Schedule)
	secured.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
