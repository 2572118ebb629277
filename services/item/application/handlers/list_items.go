package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
)

// ListItemsHandler handles GET /items.
type ListItemsHandler struct {
	*Deps
}

// NewListItemsHandler returns a ListItemsHandler.
func NewListItemsHandler(d *Deps) *ListItemsHandler {
	return &ListItemsHandler{Deps: d}
}

// Execute lists every item and drains pending flash messages.
//
//	@Summary		List items
//	@Description	Lists every item with its serial number, category and clients
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	ListItemsResponse
//	@Failure		500	{object}	errhttp.ErrorResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.Services.Item.List(r.Context())
	if err != nil {
		h.Errors.Write(w, r, err, nil)
		return
	}

	flashes, err := h.Flash.Pop(w, r)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "flash not read", "error", err)
	}

	resp := ListItemsResponse{Items: make([]ItemResponse, len(items)), Flashes: flashes}
	for i, item := range items {
		resp.Items[i] = toItemResponse(item)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
