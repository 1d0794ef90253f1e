package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type SaleHandler struct {
	Repo   repository.SaleRepository
	Logger *slog.Logger
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.list)
	r.Get("/sales/{id}", h.get)
	r.Post("/sales", h.create)
	r.Get("/customers", h.listCustomers)
	r.Get("/customers/{id}", h.getCustomer)
}

type salePayload struct {
	CustomerName   string     `json:"customerName"`
	CustomerMobile string     `json:"customerMobile"`
	CustomerAddr   string     `json:"customerAddress"`
	IsBorrow       bool       `json:"isBorrow"`
	PaymentStatus  string     `json:"paymentStatus"`
	Notes          string     `json:"notes"`
	ClientPhoto    string     `json:"clientPhoto"`
	Items          []saleLine `json:"items"`
}

type saleLine struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
	Rate     int64 `json:"rate"`
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	cu := authctx.FromContext(r.Context())
	if cu == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req salePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "at least one item is required")
		return
	}
	for _, it := range req.Items {
		if it.ItemID == 0 || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "each item needs itemId and a positive quantity")
			return
		}
	}
	if req.IsBorrow && req.CustomerMobile == "" {
		writeError(w, http.StatusBadRequest, "borrow sales require a customer mobile")
		return
	}
	status := domain.PaymentStatus(req.PaymentStatus)
	if status != "" && status != domain.PaymentPaid && status != domain.PaymentPending {
		writeError(w, http.StatusBadRequest, "paymentStatus must be PAID or PENDING")
		return
	}

	items := make([]repository.CreateSaleItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, repository.CreateSaleItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Rate:     it.Rate,
		})
	}

	sale, err := h.Repo.Create(r.Context(), repository.CreateSaleInput{
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		CustomerAddr:   req.CustomerAddr,
		IsBorrow:       req.IsBorrow,
		PaymentStatus:  status,
		Notes:          req.Notes,
		CreatedBy:      cu.ID,
		Items:          items,
	})
	if err != nil {
		if errors.Is(err, repository.ErrItemMissing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Photo is a separate write after the checkout commits; the sale
	// stands even if this fails.
	if req.ClientPhoto != "" {
		if err := h.Repo.AttachClientPhoto(r.Context(), sale.ID, req.ClientPhoto); err != nil {
			h.Logger.Warn("attach client photo failed", "saleId", sale.ID, "error", err)
		} else {
			sale.ClientPhoto = req.ClientPhoto
		}
	}

	writeJSON(w, http.StatusCreated, saleView(*sale))
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	var sales []domain.Sale
	if startDate != nil && endDate != nil {
		sales, err = h.Repo.ListBetween(r.Context(), *startDate, endDate.AddDate(0, 0, 1))
	} else {
		sales, err = h.Repo.List(r.Context(), 200)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]map[string]any, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, saleView(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	sale, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "sale not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saleView(*sale))
}

func (h SaleHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Repo.Customers.List(r.Context(), 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, customerView(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	customer, err := h.Repo.Customers.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, customerView(*customer))
}

func customerView(c domain.Customer) map[string]any {
	return map[string]any{
		"id":        strconv.FormatInt(c.ID, 10),
		"name":      c.Name,
		"mobile":    c.Mobile,
		"address":   c.Address,
		"createdAt": c.CreatedAt,
	}
}

func saleView(s domain.Sale) map[string]any {
	var customer map[string]any
	if s.Customer != nil {
		customer = map[string]any{
			"id":      strconv.FormatInt(s.Customer.ID, 10),
			"name":    s.Customer.Name,
			"mobile":  s.Customer.Mobile,
			"address": s.Customer.Address,
		}
	}

	items := make([]map[string]any, 0, len(s.Items))
	for _, it := range s.Items {
		name := ""
		if it.ItemName != nil {
			name = *it.ItemName
		}
		items = append(items, map[string]any{
			"id":       strconv.FormatInt(it.ID, 10),
			"itemId":   it.ItemID,
			"itemName": name,
			"quantity": it.Quantity,
			"rate":     it.Rate,
			"subtotal": it.Subtotal,
		})
	}

	return map[string]any{
		"id":            strconv.FormatInt(s.ID, 10),
		"orderNumber":   s.OrderNumber,
		"customer":      customer,
		"totalAmount":   s.TotalAmount,
		"isBorrow":      s.IsBorrow,
		"paymentStatus": string(s.PaymentStatus),
		"notes":         s.Notes,
		"clientPhoto":   s.ClientPhoto,
		"createdBy":     s.CreatedByName,
		"items":         items,
		"createdAt":     s.CreatedAt,
	}
}
