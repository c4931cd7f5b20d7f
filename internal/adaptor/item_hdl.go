package adaptor

import (
	"net/http"

	"catalog-review/internal/dto/request"
	"catalog-review/internal/usecase"
	"catalog-review/pkg/utils"

	"go.uber.org/zap"
)

type ItemHandler struct {
	service usecase.ItemService
	log     *zap.Logger
}

func NewItemHandler(service usecase.ItemService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		log:     log.With(zap.String("handler", "item")),
	}
}

// CreateItem handles POST /item
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req request.CreateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create item")
		return
	}

	utils.ResponseCreated(w, "Item created successfully", item)
}

// GetItems handles GET /item?type=&releaseYear=&searchTitle=
func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	query := request.ItemListQuery{
		Type:        optionalQuery(r, "type"),
		SearchTitle: optionalQuery(r, "searchTitle"),
	}

	year, err := utils.ParseOptionalInt(r.URL.Query().Get("releaseYear"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid query parameter", map[string]string{"releaseYear": err.Error()})
		return
	}
	query.ReleaseYear = year

	items, err := h.service.GetItems(r.Context(), query)
	if err != nil {
		handleServiceError(w, h.log, err, "list items")
		return
	}

	utils.ResponseSuccess(w, "Items retrieved successfully", items)
}

// GetItem handles GET /item/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid item ID", nil)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get item")
		return
	}

	utils.ResponseSuccess(w, "Item retrieved successfully", item)
}

// UpdateItem handles PUT /item/{id} (item managers)
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid item ID", nil)
		return
	}

	var req request.UpdateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update item")
		return
	}

	utils.ResponseSuccess(w, "Item updated successfully", item)
}

// DeleteItem handles DELETE /item/{id} (item managers)
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid item ID", nil)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete item")
		return
	}

	utils.ResponseSuccess(w, "Item deleted successfully", nil)
}
