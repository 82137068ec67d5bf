package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/mapbridge"
	"github.com/wayfarer/wayfarer/pkg/routing"
)

func RouteRouter(router fiber.Router, deps *Dependencies) {
	router.Get("/", func(c *fiber.Ctx) error { return getSession(c, deps) })
	router.Post("/calculate", func(c *fiber.Ctx) error { return calculateRoute(c, deps) })
	router.Post("/confirm", func(c *fiber.Ctx) error { return confirmRoute(c, deps) })
	router.Post("/cancel", func(c *fiber.Ctx) error { return cancelRoute(c, deps) })
	router.Post("/clear", func(c *fiber.Ctx) error { return clearRoute(c, deps) })
	router.Post("/tracking/start", func(c *fiber.Ctx) error { return startTracking(c, deps) })
	router.Post("/tracking/stop", func(c *fiber.Ctx) error { return stopTracking(c, deps) })
}

type calculateRequest struct {
	Start      geo.Coordinate `json:"start"`
	StartLabel string         `json:"startLabel"`
	End        geo.Coordinate `json:"end"`
	EndLabel   string         `json:"endLabel"`

	Mode       routing.TransportMode `json:"mode"`
	AvoidTolls bool                  `json:"avoidTolls"`
}

func routeErrorStatus(err error) int {
	switch {
	case errors.Is(err, routing.ErrIdenticalEndpoints),
		errors.Is(err, routing.ErrIndexOutOfRange):
		return fiber.StatusBadRequest
	case errors.Is(err, routing.ErrOutOfServiceArea),
		errors.Is(err, routing.ErrInvalidRoute),
		errors.Is(err, routing.ErrEmptyGeometry):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

func getSession(c *fiber.Ctx, deps *Dependencies) error {
	var snapshot any
	var err error

	deps.WithSession(func(session *routing.NavigationSession) {
		snapshot, err = sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, struct {
			*routing.NavigationSession
			State routing.SessionState `json:"state" groups:"basic"`
		}{session, session.State()})
	})

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce navigation session",
		})
	}

	return c.JSON(snapshot)
}

func calculateRoute(c *fiber.Ctx, deps *Dependencies) error {
	var request calculateRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be a route calculation request",
		})
	}

	if !request.Start.Valid() || !request.End.Valid() {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Coordinates out of range",
		})
	}

	ctx := c.Context()

	// The route and the incidents along it render together, so fetch both at
	// once. A failed incident lookup never fails the route.
	var routeSet *routing.RouteSet
	var routeErr error
	var nearby []incidents.Incident

	var waitGroup conc.WaitGroup
	waitGroup.Go(func() {
		routeSet, routeErr = deps.Orchestrator.CalculateRoute(ctx, request.Start, request.End, request.Mode, request.AvoidTolls)
	})
	waitGroup.Go(func() {
		var err error
		nearby, err = deps.Incidents.Nearby(ctx, request.Start, deps.Config.IncidentRadiusKm)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch incidents for the new route")
		}
	})
	waitGroup.Wait()

	if routeErr != nil {
		c.SendStatus(routeErrorStatus(routeErr))
		return c.JSON(fiber.Map{
			"error": routeErr.Error(),
		})
	}

	start := routing.Endpoint{Location: request.Start, Label: request.StartLabel}
	end := routing.Endpoint{Location: request.End, Label: request.EndLabel}

	deps.WithSession(func(session *routing.NavigationSession) {
		session.Start = &start
		session.End = &end
		session.SetRouteSet(routeSet)
	})

	if err := deps.Publisher.SetRoute(routeSet.Selected(), start, end, mapbridge.RouteColorSlotPrimary, true); err != nil {
		log.Error().Err(err).Msg("Failed to publish route to the map bridge")
	}
	if err := deps.Publisher.SetIncidents(incidents.DecorateAll(nearby, deps.Config.IncidentStyles)); err != nil {
		log.Error().Err(err).Msg("Failed to publish incidents to the map bridge")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, routeSet)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce route set",
		})
	}

	return c.JSON(reduced)
}

type confirmRequest struct {
	Index int `json:"index"`
}

func confirmRoute(c *fiber.Ctx, deps *Dependencies) error {
	var request confirmRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Body should be a confirm request",
		})
	}

	var confirmed *routing.RouteSet
	var start, end routing.Endpoint
	var confirmErr error
	noRouteSet := false

	deps.WithSession(func(session *routing.NavigationSession) {
		if session.RouteSet == nil {
			noRouteSet = true
			return
		}

		confirmed, confirmErr = deps.Orchestrator.SelectAndConfirm(session.RouteSet, request.Index)
		if confirmErr != nil {
			return
		}

		session.Confirm(confirmed)
		start = *session.Start
		end = *session.End
	})

	if noRouteSet {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "No route set to confirm",
		})
	}

	if confirmErr != nil {
		c.SendStatus(routeErrorStatus(confirmErr))
		return c.JSON(fiber.Map{
			"error": confirmErr.Error(),
		})
	}

	slot := mapbridge.RouteColorSlotPrimary
	if request.Index != 0 {
		slot = mapbridge.RouteColorSlotAlternate
	}
	if err := deps.Publisher.SetRoute(confirmed.Selected(), start, end, slot, false); err != nil {
		log.Error().Err(err).Msg("Failed to publish confirmed route to the map bridge")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, confirmed)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce route set",
		})
	}

	return c.JSON(reduced)
}

func cancelRoute(c *fiber.Ctx, deps *Dependencies) error {
	var shouldRecalculate bool
	deps.WithSession(func(session *routing.NavigationSession) {
		shouldRecalculate = session.Cancel()
	})

	if err := deps.Publisher.ClearRoute(); err != nil {
		log.Error().Err(err).Msg("Failed to clear route on the map bridge")
	}

	return c.JSON(fiber.Map{
		"shouldRecalculate": shouldRecalculate,
	})
}

func clearRoute(c *fiber.Ctx, deps *Dependencies) error {
	deps.WithSession(func(session *routing.NavigationSession) {
		session.Clear()
	})
	deps.Tracker.Reset()

	if err := deps.Publisher.ClearRoute(); err != nil {
		log.Error().Err(err).Msg("Failed to clear route on the map bridge")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func startTracking(c *fiber.Ctx, deps *Dependencies) error {
	var started bool
	deps.WithSession(func(session *routing.NavigationSession) {
		started = session.StartTracking()
	})

	if !started {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "No confirmed route to track",
		})
	}

	return c.JSON(fiber.Map{
		"state": routing.SessionStateTracking,
	})
}

func stopTracking(c *fiber.Ctx, deps *Dependencies) error {
	deps.WithSession(func(session *routing.NavigationSession) {
		session.StopTracking()
	})

	return c.SendStatus(fiber.StatusNoContent)
}
