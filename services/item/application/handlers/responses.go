package handlers

import (
	"github.com/ghuser/catalog/services/item/domain/models"
)

// CategoryResponse is a category as offered in select lists.
type CategoryResponse struct {
	ID   int64  `json:"id"   example:"1"`
	Name string `json:"name" example:"Tools"`
} // @name CategoryResponse

// ClientResponse is a client linked to an item.
type ClientResponse struct {
	ID   int64  `json:"id"   example:"1"`
	Name string `json:"name" example:"Acme Corp"`
} // @name ClientResponse

// ItemResponse is an item with whatever relations were loaded.
type ItemResponse struct {
	ID               int64             `json:"id"                 example:"7"`
	Name             string            `json:"name"               example:"Cordless drill"`
	Price            string            `json:"price"              example:"129.90"`
	CategoryID       int64             `json:"category_id"        example:"4"`
	Category         *CategoryResponse `json:"category,omitempty"`
	SerialNumberName string            `json:"serial_number_name" example:"CD-2024-0001"`
	Clients          []ClientResponse  `json:"clients,omitempty"`
	Version          int32             `json:"version"            example:"3"`
} // @name ItemResponse

// ListItemsResponse is the body of GET /items.
type ListItemsResponse struct {
	Items   []ItemResponse `json:"items"`
	Flashes []string       `json:"flashes"`
} // @name ListItemsResponse

// NewItemResponse is the body of GET /items/new.
type NewItemResponse struct {
	Categories []CategoryResponse `json:"categories"`
} // @name NewItemResponse

// EditItemResponse is the body of GET /items/{id}/edit.
type EditItemResponse struct {
	Item       ItemResponse       `json:"item"`
	Categories []CategoryResponse `json:"categories"`
} // @name EditItemResponse

// DeleteItemResponse is the body of GET /items/{id}/delete. Item is null when
// there is nothing to delete.
type DeleteItemResponse struct {
	Item *ItemResponse `json:"item"`
} // @name DeleteItemResponse

func toItemResponse(item *models.Item) ItemResponse {
	out := ItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Price:            item.Price.String(),
		CategoryID:       item.CategoryID,
		SerialNumberName: item.SerialNumberName(),
		Version:          item.Version,
	}
	if item.Category != nil {
		out.Category = &CategoryResponse{ID: item.Category.ID, Name: item.Category.Name}
	}
	for _, ic := range item.Clients {
		if ic.Client != nil {
			out.Clients = append(out.Clients, ClientResponse{ID: ic.Client.ID, Name: ic.Client.Name})
		}
	}
	return out
}

func toCategoryResponses(cats []*models.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return out
}
