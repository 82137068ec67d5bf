package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sourcegraph/conc"
	"github.com/wayfarer/wayfarer/pkg/geocoding"
)

func SearchRouter(router fiber.Router, deps *Dependencies) {
	router.Get("/", func(c *fiber.Ctx) error { return searchPlaces(c, deps) })
	router.Get("/endpoints", func(c *fiber.Ctx) error { return searchEndpoints(c, deps) })
}

func searchPlaces(c *fiber.Ctx, deps *Dependencies) error {
	query := c.Query("q")
	if query == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter q is required",
		})
	}

	places, err := deps.Searcher.Search(c.Context(), query)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"places": places,
	})
}

// searchEndpoints resolves the start and end fields in one call. The two
// lookups share the cache and run side by side.
func searchEndpoints(c *fiber.Ctx, deps *Dependencies) error {
	startQuery := c.Query("start")
	endQuery := c.Query("end")
	if startQuery == "" || endQuery == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters start and end are required",
		})
	}

	ctx := c.Context()

	var startPlaces, endPlaces []geocoding.Place
	var startErr, endErr error

	var waitGroup conc.WaitGroup
	waitGroup.Go(func() {
		startPlaces, startErr = deps.Searcher.Search(ctx, startQuery)
	})
	waitGroup.Go(func() {
		endPlaces, endErr = deps.Searcher.Search(ctx, endQuery)
	})
	waitGroup.Wait()

	if startErr != nil || endErr != nil {
		c.SendStatus(fiber.StatusBadGateway)
		err := startErr
		if err == nil {
			err = endErr
		}
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"start": startPlaces,
		"end":   endPlaces,
	})
}
