package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/mapbridge"
	"github.com/wayfarer/wayfarer/pkg/routing"
)

func MapRouter(router fiber.Router, deps *Dependencies) {
	router.Post("/type", func(c *fiber.Ctx) error { return setMapType(c, deps) })
	router.Post("/position", func(c *fiber.Ctx) error { return reportPosition(c, deps) })
}

type mapTypeRequest struct {
	Kind mapbridge.MapType `json:"kind"`
}

func setMapType(c *fiber.Ctx, deps *Dependencies) error {
	var request mapTypeRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be a map type",
		})
	}

	if err := deps.Publisher.SetMapType(request.Kind); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type positionRequest struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	HeadingDegrees *float64 `json:"headingDegrees"`
}

func reportPosition(c *fiber.Ctx, deps *Dependencies) error {
	var request positionRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be a position fix",
		})
	}

	var tracking bool
	deps.WithSession(func(session *routing.NavigationSession) {
		tracking = session.Tracking
	})

	fix := geo.Coordinate{Latitude: request.Latitude, Longitude: request.Longitude}
	if err := deps.Tracker.HandleFix(fix, request.HeadingDegrees, tracking); err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
