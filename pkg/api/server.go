package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wayfarer/wayfarer/pkg/api/routes"
)

func SetupServer(listen string, deps *routes.Dependencies) error {
	webApp := NewApp(deps)

	return webApp.Listen(listen)
}

func NewApp(deps *routes.Dependencies) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/engine")

	group.Get("version", routes.APIVersion)

	routes.RouteRouter(group.Group("/route"), deps)
	routes.SearchRouter(group.Group("/search"), deps)
	routes.IncidentsRouter(group.Group("/incidents"), deps)
	routes.MapRouter(group.Group("/map"), deps)

	return webApp
}
