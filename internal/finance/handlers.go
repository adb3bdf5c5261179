package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"sapaghor/internal/api"
)

type Handlers struct {
	Finance *Repository
}

func (h Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	orderID, _ := strconv.ParseInt(q.Get("order_id"), 10, 64)

	items, total, err := h.Finance.ListPayments(r.Context(), PaymentFilter{
		OrderID:       orderID,
		PaymentMethod: q.Get("payment_method"),
		Page:          page,
		PerPage:       perPage,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Payment{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"payments": items, "total": total})
}

type paymentRequest struct {
	OrderID         int64   `json:"order_id"`
	InvoiceID       *int64  `json:"invoice_id"`
	Amount          string  `json:"amount"`
	PaymentType     string  `json:"payment_type"`
	PaymentMethod   string  `json:"payment_method"`
	ReferenceNumber *string `json:"reference_number"`
	Notes           *string `json:"notes"`
}

func (h Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	staff := api.StaffFromContext(r.Context())
	if staff == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing staff identity")
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.OrderID <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing order_id")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "amount must be > 0")
		return
	}

	p := &Payment{
		OrderID:         req.OrderID,
		InvoiceID:       req.InvoiceID,
		Amount:          amount,
		PaymentType:     defaulted(req.PaymentType, "partial"),
		PaymentMethod:   defaulted(req.PaymentMethod, "cash"),
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ReceivedBy:      &staff.ID,
	}
	created, err := h.Finance.RecordPayment(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		case errors.Is(err, ErrInvoiceNotFound):
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "invoice not found")
		default:
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to record payment")
		}
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

type invoiceRequest struct {
	OrderID int64      `json:"order_id"`
	TaxRate string     `json:"tax_rate"`
	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes"`
	Terms   *string    `json:"terms"`
}

func (h Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	staff := api.StaffFromContext(r.Context())
	if staff == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing staff identity")
		return
	}

	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.OrderID <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing order_id")
		return
	}
	taxRate := decimal.Zero
	if req.TaxRate != "" {
		var err error
		if taxRate, err = decimal.NewFromString(req.TaxRate); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid tax_rate")
			return
		}
	}

	inv, err := h.Finance.CreateInvoice(r.Context(), req.OrderID, taxRate, req.DueDate, req.Notes, req.Terms, &staff.ID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create invoice")
		return
	}
	api.WriteJSON(w, http.StatusCreated, inv)
}

func (h Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	items, total, err := h.Finance.ListInvoices(r.Context(), q.Get("status"), page, perPage)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Invoice{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"invoices": items, "total": total})
}

func (h Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	inv, err := h.Finance.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "invoice not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

func (h Handlers) SendInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	inv, err := h.Finance.MarkInvoiceSent(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "invoice not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, inv)
}

type expenseRequest struct {
	Category        string     `json:"category"`
	Description     *string    `json:"description"`
	Amount          string     `json:"amount"`
	PaymentMethod   string     `json:"payment_method"`
	ReferenceNumber *string    `json:"reference_number"`
	ExpenseDate     *time.Time `json:"expense_date"`
	VendorName      *string    `json:"vendor_name"`
	Notes           *string    `json:"notes"`
}

func (h Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	staff := api.StaffFromContext(r.Context())
	if staff == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing staff identity")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if !ValidExpenseCategory(req.Category) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid category")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "amount must be > 0")
		return
	}

	expenseDate := time.Now()
	if req.ExpenseDate != nil {
		expenseDate = *req.ExpenseDate
	}
	e := &Expense{
		Category:        req.Category,
		Description:     req.Description,
		Amount:          amount,
		PaymentMethod:   defaulted(req.PaymentMethod, "cash"),
		ReferenceNumber: req.ReferenceNumber,
		ExpenseDate:     expenseDate,
		VendorName:      req.VendorName,
		Notes:           req.Notes,
		CreatedBy:       &staff.ID,
	}
	created, err := h.Finance.CreateExpense(r.Context(), e)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to record expense")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	f := ExpenseFilter{Category: q.Get("category"), Page: page, PerPage: perPage}
	if v := q.Get("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.StartDate = &t
		}
	}
	if v := q.Get("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.EndDate = &t
		}
	}

	items, total, err := h.Finance.ListExpenses(r.Context(), f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Expense{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"expenses": items, "total": total})
}

func (h Handlers) ExpenseCategories(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, ExpenseCategories)
}

func defaulted(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
