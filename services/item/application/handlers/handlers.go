// Package handlers exposes the item service over HTTP. Reads answer with
// JSON; successful writes answer 303 See Other to the item list and leave a
// flash message for the next GET.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/flash"
	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/pkg/logger"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
)

// ListPath is where every successful write redirects.
const ListPath = "/api/items"

// Deps is what every item handler needs.
type Deps struct {
	Services *appsvcs.Services
	Flash    *flash.Flasher
	Errors   *errhttp.Writer
	Logger   logger.Logger
}

// itemID reads the {id} route parameter. Anything that is not a positive
// integer cannot name an item, so it is reported as not found.
func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, itemdomain.ErrItemNotFound
	}
	return id, nil
}

// redirectWithFlash stores msg for the next request and redirects to the list.
func (d *Deps) redirectWithFlash(w http.ResponseWriter, r *http.Request, msg string) {
	if err := d.Flash.Add(w, r, msg); err != nil {
		d.Logger.WarnContext(r.Context(), "flash not saved", "error", err)
	}
	httpx.SeeOther(w, r, ListPath)
}
