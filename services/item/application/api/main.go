package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/services/item/application/handlers"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return fmt.Errorf("item services: %w", err)
	}
	Mount(r, &handlers.Deps{
		Services: svcs,
		Flash:    a.Flash,
		Errors:   a.Errors,
		Logger:   a.Logger,
	})
	return nil
}

// Mount registers the item routes backed by d under /items.
func Mount(r chi.Router, d *handlers.Deps) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(d).Execute)
		r.Post("/", handlers.NewCreateItemHandler(d).Execute)
		r.Get("/new", handlers.NewNewItemHandler(d).Execute)

		r.Route("/{id}", func(r chi.Router) {
			edit := handlers.NewEditItemHandler(d).Execute
			del := handlers.NewDeleteItemHandler(d).Execute

			r.Post("/", edit)
			r.Put("/", edit)
			r.Delete("/", del)
			r.Get("/edit", handlers.NewEditItemFormHandler(d).Execute)
			r.Get("/delete", handlers.NewDeleteItemFormHandler(d).Execute)
			r.Post("/delete", del)
		})
	})
}
