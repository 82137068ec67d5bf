package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
)

func IncidentsRouter(router fiber.Router, deps *Dependencies) {
	router.Get("/", func(c *fiber.Ctx) error { return getNearbyIncidents(c, deps) })
	router.Post("/", func(c *fiber.Ctx) error { return createIncident(c, deps) })
	router.Post("/:id/vote", func(c *fiber.Ctx) error { return voteIncident(c, deps) })
	router.Patch("/:id/status", func(c *fiber.Ctx) error { return setIncidentStatus(c, deps) })
}

func marshalGroups(c *fiber.Ctx, groups []string, value any) error {
	reduced, err := sheriff.Marshal(&sheriff.Options{Groups: groups}, value)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce incident response",
		})
	}

	return c.JSON(reduced)
}

func incidentGroups(c *fiber.Ctx) []string {
	if c.QueryBool("detailed") {
		return []string{"basic", "detailed"}
	}

	return []string{"basic"}
}

func getNearbyIncidents(c *fiber.Ctx, deps *Dependencies) error {
	center := geo.Coordinate{
		Latitude:  c.QueryFloat("latitude", deps.Config.DefaultLocation.Latitude),
		Longitude: c.QueryFloat("longitude", deps.Config.DefaultLocation.Longitude),
	}
	radiusKm := c.QueryFloat("radius", deps.Config.IncidentRadiusKm)

	if !center.Valid() {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Coordinates out of range",
		})
	}

	nearby, err := deps.Incidents.Nearby(c.Context(), center, radiusKm)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	decorated := incidents.DecorateAll(nearby, deps.Config.IncidentStyles)
	if err := deps.Publisher.SetIncidents(decorated); err != nil {
		log.Error().Err(err).Msg("Failed to publish incidents to the map bridge")
	}

	return marshalGroups(c, incidentGroups(c), fiber.Map{
		"incidents": decorated,
	})
}

func createIncident(c *fiber.Ctx, deps *Dependencies) error {
	var request incidents.CreateRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be an incident report",
		})
	}

	location := geo.Coordinate{Latitude: request.Latitude, Longitude: request.Longitude}
	if !location.Valid() || !deps.Config.ServiceArea.Contains(location) {
		c.SendStatus(fiber.StatusUnprocessableEntity)
		return c.JSON(fiber.Map{
			"error": "Incident location is outside the service area",
		})
	}

	created, err := deps.Incidents.Create(c.Context(), request)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(fiber.StatusCreated)
	return marshalGroups(c, []string{"basic", "detailed"}, incidents.Decorate(*created, deps.Config.IncidentStyles))
}

type voteRequest struct {
	Vote int `json:"vote"`
}

func voteIncident(c *fiber.Ctx, deps *Dependencies) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter id should be an integer",
		})
	}

	var request voteRequest
	if err := c.BodyParser(&request); err != nil || (request.Vote != 1 && request.Vote != -1) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be a vote of 1 or -1",
		})
	}

	result, err := deps.Incidents.Vote(c.Context(), id, request.Vote)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

type statusRequest struct {
	IsActive bool `json:"isActive"`
}

func setIncidentStatus(c *fiber.Ctx, deps *Dependencies) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter id should be an integer",
		})
	}

	var request statusRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be a status update",
		})
	}

	result, err := deps.Incidents.SetStatus(c.Context(), id, request.IsActive)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}
