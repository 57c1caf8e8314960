package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/http/handlers"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/auth"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Equipment      *handlers.EquipmentHandler
	Loans          *handlers.LoansHandler
	Companies      *handlers.CompaniesHandler
	Branches       *handlers.BranchesHandler
	Locations      *handlers.LocationsHandler
	Contacts       *handlers.ContactsHandler
	Geography      *handlers.GeographyHandler
	Import         *handlers.ImportHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything except health probes and
// login sits behind the bearer-token middleware; /admin additionally
// requires the ADMIN role. Updates accept PUT and PATCH interchangeably,
// both carrying the same partial payload.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Users.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/acciones", cfg.Tickets.AddAction)
	tickets.Get("/:id/acciones", cfg.Tickets.ListActions)
	api.Put("/acciones/:id", cfg.Tickets.UpdateAction)
	api.Patch("/acciones/:id", cfg.Tickets.UpdateAction)

	equipment := api.Group("/equipos")
	equipment.Post("", cfg.Equipment.Create)
	equipment.Get("", cfg.Equipment.List)
	equipment.Get("/:id", cfg.Equipment.Get)
	equipment.Put("/:id", cfg.Equipment.Update)
	equipment.Patch("/:id", cfg.Equipment.Update)
	equipment.Post("/:id/dar-de-baja", cfg.Equipment.Decommission)
	equipment.Delete("/:id", cfg.Equipment.Decommission)

	loans := api.Group("/equipos-en-prestamo")
	loans.Post("", cfg.Loans.Create)
	loans.Get("", cfg.Loans.List)
	loans.Get("/:id", cfg.Loans.Get)
	loans.Put("/:id", cfg.Loans.Update)
	loans.Patch("/:id", cfg.Loans.Update)
	loans.Delete("/:id", cfg.Loans.Delete)

	companies := api.Group("/empresas")
	companies.Post("", cfg.Companies.Create)
	companies.Get("", cfg.Companies.List)
	companies.Get("/:id", cfg.Companies.Get)
	companies.Put("/:id", cfg.Companies.Update)
	companies.Patch("/:id", cfg.Companies.Update)
	companies.Delete("/:id", cfg.Companies.Deactivate)

	branches := api.Group("/sucursales")
	branches.Post("", cfg.Branches.Create)
	branches.Get("", cfg.Branches.List)
	branches.Get("/:id", cfg.Branches.Get)
	branches.Put("/:id", cfg.Branches.Update)
	branches.Patch("/:id", cfg.Branches.Update)
	branches.Delete("/:id", cfg.Branches.Delete)

	locations := api.Group("/ubicaciones")
	locations.Post("", cfg.Locations.Create)
	locations.Get("", cfg.Locations.List)
	locations.Get("/:id", cfg.Locations.Get)
	locations.Put("/:id", cfg.Locations.Update)
	locations.Patch("/:id", cfg.Locations.Update)
	locations.Delete("/:id", cfg.Locations.Delete)

	contacts := api.Group("/contactos")
	contacts.Post("", cfg.Contacts.Create)
	contacts.Get("", cfg.Contacts.List)
	contacts.Get("/:id", cfg.Contacts.Get)
	contacts.Put("/:id", cfg.Contacts.Update)
	contacts.Patch("/:id", cfg.Contacts.Update)
	contacts.Delete("/:id", cfg.Contacts.Deactivate)

	geography := api.Group("/geografia")
	geography.Get("/paises", cfg.Geography.ListCountries)
	geography.Get("/regiones", cfg.Geography.ListRegions)
	geography.Get("/provincias", cfg.Geography.ListProvinces)
	geography.Get("/comunas", cfg.Geography.ListComunas)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/importar-tickets", cfg.Import.Run)
	admin.Post("/usuarios", cfg.Users.Create)
}
