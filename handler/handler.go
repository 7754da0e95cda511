// Package handler exposes a Classifier over HTTP.
package handler

import (
	"errors"
	"log/slog"
	"strings"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Ticket string `json:"ticket"`
}

type server struct {
	classifier *triage.Classifier
	backend    string
	logger     *slog.Logger
}

// New builds the HTTP app. backend identifies the generation process in /health responses.
//
// POST /predict answers 200 both for a recovered label and for a completion without usable JSON,
// the latter as {"error", "raw"}. A failing generation process answers 502.
func New(classifier *triage.Classifier, backend string, logger *slog.Logger) *fiber.App {
	s := server{
		classifier: classifier,
		backend:    backend,
		logger:     logger.With(slog.String("module", "handler")),
	}

	app := fiber.New(fiber.Config{
		AppName: "ticket-triage",
	})

	app.Use(s.requestID)
	app.Get("/health", s.health)
	app.Post("/predict", s.predict)

	return app
}

func (s server) requestID(c fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Locals(RequestIDHeader, id)
	c.Set(RequestIDHeader, id)
	return c.Next()
}

func (s server) health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":      true,
		"backend": s.backend,
	})
}

func (s server) predict(c fiber.Ctx) error {
	logger := s.logger.With("requestID", c.Locals(RequestIDHeader))

	var req PredictRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(triage.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Ticket) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(triage.ErrorResponse{Error: "ticket is required"})
	}

	res, err := s.classifier.Classify(c.RequestCtx(), req.Ticket)
	if err != nil {
		var extractErr *triage.ExtractionError
		if errors.As(err, &extractErr) {
			logger.Info("Completion held no usable JSON", "kind", extractErr.Kind)
			return c.Status(fiber.StatusOK).JSON(triage.ErrorBody(err))
		}
		logger.Error("Failed to classify ticket", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(triage.ErrorBody(err))
	}

	logger.Debug("Classified ticket", "category", res.Label.Category, "priority", res.Label.Priority,
		"warnings", len(res.Warnings), "cached", res.Cached)

	return c.Status(fiber.StatusOK).JSON(res.Body())
}
