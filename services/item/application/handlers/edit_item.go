package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
)

// EditItemFormHandler handles GET /items/{id}/edit.
type EditItemFormHandler struct {
	*Deps
}

// NewEditItemFormHandler returns an EditItemFormHandler.
func NewEditItemFormHandler(d *Deps) *EditItemFormHandler {
	return &EditItemFormHandler{Deps: d}
}

// Execute returns the item to edit and the categories to choose from.
//
//	@Summary	Prepare item edit
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	EditItemResponse
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Failure	500	{object}	errhttp.ErrorResponse
//	@Router		/items/{id}/edit [get]
func (h *EditItemFormHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	view, err := h.Services.Item.PrepareEdit(r.Context(), id)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, EditItemResponse{
		Item:       toItemResponse(view.Item),
		Categories: toCategoryResponses(view.Categories),
	})
}

// EditItemHandler handles POST and PUT /items/{id}.
type EditItemHandler struct {
	*Deps
}

// NewEditItemHandler returns an EditItemHandler.
func NewEditItemHandler(d *Deps) *EditItemHandler {
	return &EditItemHandler{Deps: d}
}

// Execute overwrites the item and reconciles its serial number.
//
//	@Summary		Edit item
//	@Description	Overwrites name, price, category and serial number. A concurrent change answers 409.
//	@Tags			items
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			id		path	int					true	"Item ID"
//	@Param			request	body	services.ItemInput	true	"New item values"
//	@Success		303
//	@Failure		400	{object}	errhttp.ErrorResponse
//	@Failure		404	{object}	errhttp.ErrorResponse
//	@Failure		409	{object}	errhttp.ErrorResponse
//	@Failure		422	{object}	errhttp.ValidationResponse
//	@Failure		500	{object}	errhttp.ErrorResponse
//	@Router			/items/{id} [put]
//	@Router			/items/{id} [post]
func (h *EditItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	in, err := bindItemInput(r)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	if _, err := h.Services.Item.Edit(r.Context(), id, in); err != nil {
		h.Errors.Write(w, r, err, in)
		return
	}
	h.redirectWithFlash(w, r, "Item updated.")
}
