package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/apperr"
)

// Server wraps echo with the error handling and lifecycle the API needs.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

func NewServer(addr string, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = newHTTPErrorHandler(logger)
	e.Use(middleware.Recover())

	return &Server{echo: e, addr: addr, logger: logger}
}

// Echo exposes the router for route registration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// newHTTPErrorHandler translates domain error kinds and request validation
// failures into status codes; anything else is a logged 500.
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code    int
			payload interface{}
		)

		var appErr *apperr.Error
		var vErrs validator.ValidationErrors
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &appErr):
			code = statusForKind(appErr.Kind)
			payload = echo.Map{"error": appErr.Msg, "kind": appErr.Kind.String()}
		case errors.As(err, &vErrs):
			fields := make(map[string]string, len(vErrs))
			for _, fErr := range vErrs {
				fields[fErr.Field()] = fErr.Tag()
			}
			code = http.StatusBadRequest
			payload = echo.Map{"error": "invalid request", "kind": apperr.KindValidation.String(), "fields": fields}
		case errors.As(err, &httpErr):
			code = httpErr.Code
			payload = echo.Map{"error": httpErr.Message}
		default:
			code = http.StatusInternalServerError
			payload = echo.Map{"error": http.StatusText(code)}
			logger.Error("Unhandled error",
				zap.String("path", ctx.Request().URL.Path),
				zap.Error(err))
		}

		if writeErr := ctx.JSON(code, payload); writeErr != nil {
			logger.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindPolicy:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
