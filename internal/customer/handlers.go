package customer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"sapaghor/internal/api"
)

type Handlers struct {
	Customers *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	items, total, err := h.Customers.List(r.Context(), ListFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Customer{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"customers": items, "total": total})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	c, err := h.Customers.GetByID(r.Context(), id)
	if err != nil {
		writeCustomerError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}

type customerRequest struct {
	CompanyName    string  `json:"company_name"`
	ContactPerson  *string `json:"contact_person"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	AlternatePhone *string `json:"alternate_phone"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	District       *string `json:"district"`
	Category       *string `json:"category"`
	CreditLimit    string  `json:"credit_limit"`
	Notes          *string `json:"notes"`
	IsActive       *bool   `json:"is_active"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.CompanyName == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing company_name")
		return
	}
	limit := decimal.Zero
	if req.CreditLimit != "" {
		var err error
		if limit, err = decimal.NewFromString(req.CreditLimit); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid credit_limit")
			return
		}
	}

	c := &Customer{
		CompanyName:    req.CompanyName,
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		Phone:          req.Phone,
		AlternatePhone: req.AlternatePhone,
		Address:        req.Address,
		City:           req.City,
		District:       req.District,
		Category:       req.Category,
		CreditLimit:    limit,
		Notes:          req.Notes,
	}
	created, err := h.Customers.Create(r.Context(), c)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create customer")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	c, err := h.Customers.GetByID(r.Context(), id)
	if err != nil {
		writeCustomerError(w, err)
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	if req.CompanyName != "" {
		c.CompanyName = req.CompanyName
	}
	if req.ContactPerson != nil {
		c.ContactPerson = req.ContactPerson
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.AlternatePhone != nil {
		c.AlternatePhone = req.AlternatePhone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.City != nil {
		c.City = req.City
	}
	if req.District != nil {
		c.District = req.District
	}
	if req.Category != nil {
		c.Category = req.Category
	}
	if req.CreditLimit != "" {
		limit, err := decimal.NewFromString(req.CreditLimit)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid credit_limit")
			return
		}
		c.CreditLimit = limit
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	updated, err := h.Customers.Update(r.Context(), c)
	if err != nil {
		writeCustomerError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	if err := h.Customers.Deactivate(r.Context(), id); err != nil {
		writeCustomerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCustomerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "customer not found")
		return
	}
	api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}
