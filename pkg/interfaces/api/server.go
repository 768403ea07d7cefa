package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/services/procurement"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// Options configure the fiber app
type Options struct {
	CORSOrigins string
	Logger      *zap.Logger
}

// NewApp builds the fiber app with every route registered
func NewApp(h *Handlers, opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(logger),
	})

	origins := strings.Split(opts.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	if opts.CORSOrigins == "" {
		origins = []string{"*"}
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET,POST,PUT,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Event demand and synthesis
	api.Get("/events/:id/demand", h.EventDemand)
	api.Get("/events/:id/resolution", h.Resolve)
	api.Post("/events/:id/plan", h.PlanEvent)
	api.Get("/events/:id/orders", h.ListEventOrders)

	// Event orders
	api.Post("/event-orders/:id/send", h.SendEventOrder)
	api.Post("/event-orders/:id/cancel", h.CancelEventOrder)
	api.Put("/event-orders/:id/lines/:lineId/freeze", h.SetLineFreeze)

	// Catalog
	api.Post("/orgs/:org/aliases", h.CreateAlias)

	// Standalone purchase orders
	api.Post("/purchase-orders", h.CreatePurchaseOrder)
	api.Get("/purchase-orders", h.ListPurchaseOrders)
	api.Get("/purchase-orders/:id", h.GetPurchaseOrder)
	api.Post("/purchase-orders/:id/transition", h.TransitionPurchaseOrder)
	api.Post("/purchase-orders/:id/receipts", h.ReceivePurchaseOrder)

	return app
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entities.ErrInvalidStateTransition),
		errors.Is(err, procurement.ErrOrderNotDraft),
		errors.Is(err, entities.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, entities.ErrInvalidInput),
		errors.Is(err, entities.ErrInvalidQuantity),
		errors.Is(err, entities.ErrInvalidPackSize),
		errors.Is(err, entities.ErrNegativeReceipt),
		errors.Is(err, entities.ErrUnitMismatch):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		code := statusFor(err)
		if code == fiber.StatusInternalServerError {
			logger.Error("unexpected error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
			return c.Status(code).JSON(fiber.Map{"error": "internal server error"})
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = statusFor(err)
			}
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}

		switch {
		case status >= 500:
			logger.Error("server error", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}
