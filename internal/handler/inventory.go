package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	Repo repository.InventoryRepository
}

func (h InventoryHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/inventory", h.list)
	r.Get("/inventory/low-stock", h.listLowStock)
	r.Get("/inventory/{id}", h.get)
	r.Get("/inventory/{id}/purchases", h.listPurchases)
}

func (h InventoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/inventory", h.create)
	r.Put("/inventory/{id}", h.update)
	r.Delete("/inventory/{id}", h.delete)
	r.Post("/inventory/{id}/purchases", h.restock)
}

type itemPayload struct {
	Name              string `json:"name"`
	Unit              string `json:"unit"`
	Category          string `json:"category"`
	PurchaseRate      int64  `json:"purchaseRate"`
	SellingRate       int64  `json:"sellingRate"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

func (h InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toItemViews(items))
}

func (h InventoryHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListLowStock(r.Context(), 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toItemViews(items))
}

func (h InventoryHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	item, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, itemView(*item))
}

func (h InventoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req itemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	item, err := h.Repo.Create(r.Context(), repository.CreateItemInput{
		Name:              req.Name,
		Unit:              req.Unit,
		Category:          req.Category,
		PurchaseRate:      req.PurchaseRate,
		SellingRate:       req.SellingRate,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, itemView(*item))
}

func (h InventoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req itemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	item, err := h.Repo.Update(r.Context(), id, repository.CreateItemInput{
		Name:              req.Name,
		Unit:              req.Unit,
		Category:          req.Category,
		PurchaseRate:      req.PurchaseRate,
		SellingRate:       req.SellingRate,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, itemView(*item))
}

func (h InventoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "item deleted"})
}

func (h InventoryHandler) restock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Quantity int    `json:"quantity"`
		Rate     int64  `json:"rate"`
		Supplier string `json:"supplier"`
		Note     string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	purchase, err := h.Repo.Restock(r.Context(), id, repository.RestockInput{
		Quantity: req.Quantity,
		Rate:     req.Rate,
		Supplier: req.Supplier,
		Note:     req.Note,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, purchaseView(*purchase))
}

func (h InventoryHandler) listPurchases(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	purchases, err := h.Repo.ListPurchases(r.Context(), id, 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(purchases))
	for _, p := range purchases {
		resp = append(resp, purchaseView(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func itemView(it domain.InventoryItem) map[string]any {
	return map[string]any{
		"id":                strconv.FormatInt(it.ID, 10),
		"name":              it.Name,
		"unit":              it.Unit,
		"category":          it.Category,
		"purchaseRate":      it.PurchaseRate,
		"sellingRate":       it.SellingRate,
		"quantity":          it.Quantity,
		"totalPurchased":    it.TotalPurchased,
		"totalSold":         it.TotalSold,
		"lowStockThreshold": it.LowStockThreshold,
		"lowStock":          it.LowStock(),
		"createdAt":         it.CreatedAt,
		"updatedAt":         it.UpdatedAt,
	}
}

func toItemViews(items []domain.InventoryItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, itemView(it))
	}
	return out
}

func purchaseView(p domain.Purchase) map[string]any {
	return map[string]any{
		"id":        strconv.FormatInt(p.ID, 10),
		"itemId":    strconv.FormatInt(p.ItemID, 10),
		"quantity":  p.Quantity,
		"rate":      p.Rate,
		"supplier":  p.Supplier,
		"note":      p.Note,
		"createdAt": p.CreatedAt,
	}
}
