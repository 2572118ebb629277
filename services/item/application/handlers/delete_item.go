package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
)

// DeleteItemFormHandler handles GET /items/{id}/delete.
type DeleteItemFormHandler struct {
	*Deps
}

// NewDeleteItemFormHandler returns a DeleteItemFormHandler.
func NewDeleteItemFormHandler(d *Deps) *DeleteItemFormHandler {
	return &DeleteItemFormHandler{Deps: d}
}

// Execute returns the item to confirm. A missing item is not an error; the
// body then carries "item": null.
//
//	@Summary	Prepare item deletion
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	DeleteItemResponse
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Failure	500	{object}	errhttp.ErrorResponse
//	@Router		/items/{id}/delete [get]
func (h *DeleteItemFormHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	item, err := h.Services.Item.PrepareDelete(r.Context(), id)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	var resp DeleteItemResponse
	if item != nil {
		ir := toItemResponse(item)
		resp.Item = &ir
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// DeleteItemHandler handles DELETE /items/{id} and POST /items/{id}/delete.
type DeleteItemHandler struct {
	*Deps
}

// NewDeleteItemHandler returns a DeleteItemHandler.
func NewDeleteItemHandler(d *Deps) *DeleteItemHandler {
	return &DeleteItemHandler{Deps: d}
}

// Execute deletes the item with its serial number and client links.
// Deleting an item that is already gone still redirects.
//
//	@Summary	Delete item
//	@Tags		items
//	@Produce	json
//	@Param		id	path	int	true	"Item ID"
//	@Success	303
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Failure	409	{object}	errhttp.ErrorResponse
//	@Failure	500	{object}	errhttp.ErrorResponse
//	@Router		/items/{id} [delete]
//	@Router		/items/{id}/delete [post]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	if err := h.Services.Item.DeleteConfirmed(r.Context(), id); err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}
	h.redirectWithFlash(w, r, "Item deleted.")
}
