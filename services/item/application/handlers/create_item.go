package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
)

// NewItemHandler handles GET /items/new.
type NewItemHandler struct {
	*Deps
}

// NewNewItemHandler returns a NewItemHandler.
func NewNewItemHandler(d *Deps) *NewItemHandler {
	return &NewItemHandler{Deps: d}
}

// Execute returns what the create form needs.
//
//	@Summary	Prepare item creation
//	@Tags		items
//	@Produce	json
//	@Success	200	{object}	NewItemResponse
//	@Failure	500	{object}	errhttp.ErrorResponse
//	@Router		/items/new [get]
func (h *NewItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Services.Item.PrepareCreate(r.Context())
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, NewItemResponse{Categories: toCategoryResponses(cats)})
}

// CreateItemHandler handles POST /items.
type CreateItemHandler struct {
	*Deps
}

// NewCreateItemHandler returns a CreateItemHandler.
func NewCreateItemHandler(d *Deps) *CreateItemHandler {
	return &CreateItemHandler{Deps: d}
}

// Execute creates an item and, when given, its serial number.
//
//	@Summary		Create item
//	@Description	Creates an item from a JSON body or form values. Unknown fields are ignored.
//	@Tags			items
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body	services.ItemInput	true	"Item to create"
//	@Success		303
//	@Failure		400	{object}	errhttp.ErrorResponse
//	@Failure		413	{object}	errhttp.ErrorResponse
//	@Failure		422	{object}	errhttp.ValidationResponse
//	@Failure		500	{object}	errhttp.ErrorResponse
//	@Router			/items [post]
func (h *CreateItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	in, err := bindItemInput(r)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	if _, err := h.Services.Item.Create(r.Context(), in); err != nil {
		h.Errors.Write(w, r, err, in)
		return
	}
	h.redirectWithFlash(w, r, "Item created.")
}
