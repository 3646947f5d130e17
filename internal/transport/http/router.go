package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

// NewRouter builds the echo instance carrying the middleware every route
// shares; handlers attach through the Register* functions in this package.
func NewRouter(allowOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	registerLogging(e)

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(corsConfig(allowOrigins)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, util.Data("status", "ok"))
	})
	return e
}

// corsConfig enables credentials only for an explicit origin list; wildcard
// origins and credentialed requests do not mix.
func corsConfig(allowOrigins []string) middleware.CORSConfig {
	allowCredentials := true
	for _, origin := range allowOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: allowCredentials,
	}
}
