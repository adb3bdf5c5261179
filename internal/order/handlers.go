package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"sapaghor/internal/api"
	"sapaghor/internal/history"
	"sapaghor/internal/workflow"
)

type Handlers struct {
	Orders    *Repository
	Lifecycle *Lifecycle
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	customerID, _ := strconv.ParseInt(q.Get("customer_id"), 10, 64)

	items, total, err := h.Orders.List(r.Context(), ListFilter{
		Status:     q.Get("status"),
		OrderType:  q.Get("order_type"),
		CustomerID: customerID,
		Search:     q.Get("search"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Order{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"orders": items, "total": total})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	o, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	hist, err := h.Lifecycle.History(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"order":        o,
		"status_label": workflow.LabelFor(o.Status),
		"history":      hist,
	})
}

type itemRequest struct {
	ProductName  string  `json:"product_name"`
	Description  *string `json:"description"`
	Quantity     int     `json:"quantity"`
	Size         *string `json:"size"`
	Color        *string `json:"color"`
	MaterialType *string `json:"material_type"`
	UnitPrice    string  `json:"unit_price"`
	Plate        string  `json:"plate"`
	Paper        string  `json:"paper"`
	Duplicate    string  `json:"duplicate"`
	Ink          string  `json:"ink"`
	Printing     string  `json:"printing"`
	Binding      string  `json:"binding"`
	Laminating   string  `json:"laminating"`
	Others       string  `json:"others"`
}

func (ir itemRequest) toItem() (Item, error) {
	it := Item{
		ProductName:  ir.ProductName,
		Description:  ir.Description,
		Quantity:     ir.Quantity,
		Size:         ir.Size,
		Color:        ir.Color,
		MaterialType: ir.MaterialType,
	}
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	var err error
	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&it.UnitPrice, ir.UnitPrice},
		{&it.Plate, ir.Plate},
		{&it.Paper, ir.Paper},
		{&it.Duplicate, ir.Duplicate},
		{&it.Ink, ir.Ink},
		{&it.Printing, ir.Printing},
		{&it.Binding, ir.Binding},
		{&it.Laminating, ir.Laminating},
		{&it.Others, ir.Others},
	}
	for _, f := range fields {
		if *f.dst, err = parseAmount(f.src); err != nil {
			return Item{}, err
		}
	}
	it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
	return it, nil
}

type createRequest struct {
	CustomerID           int64         `json:"customer_id"`
	OrderType            string        `json:"order_type"`
	WorkName             *string       `json:"work_name"`
	Description          *string       `json:"description"`
	ExpectedDeliveryDate *time.Time    `json:"expected_delivery_date"`
	Discount             string        `json:"discount"`
	DesignFee            string        `json:"design_fee"`
	UrgencyFee           string        `json:"urgency_fee"`
	CashingFee           string        `json:"cashing_fee"`
	MiscFee              string        `json:"misc_fee"`
	SpecialInstructions  *string       `json:"special_instructions"`
	InternalNotes        *string       `json:"internal_notes"`
	Items                []itemRequest `json:"items"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	staff := api.StaffFromContext(r.Context())
	if staff == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing staff identity")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.CustomerID <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing customer_id")
		return
	}

	orderType := TypeRegular
	if OrderType(req.OrderType) == TypePreOrder {
		orderType = TypePreOrder
	}

	o := &Order{
		CustomerID:           req.CustomerID,
		OrderType:            orderType,
		WorkName:             req.WorkName,
		Description:          req.Description,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		SpecialInstructions:  req.SpecialInstructions,
		InternalNotes:        req.InternalNotes,
		CreatedBy:            &staff.ID,
	}

	var err error
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&o.Discount, req.Discount},
		{&o.DesignFee, req.DesignFee},
		{&o.UrgencyFee, req.UrgencyFee},
		{&o.CashingFee, req.CashingFee},
		{&o.MiscFee, req.MiscFee},
	} {
		if *f.dst, err = parseAmount(f.src); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid amount")
			return
		}
	}

	items := make([]Item, 0, len(req.Items))
	for _, ir := range req.Items {
		it, err := ir.toItem()
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid item amount")
			return
		}
		items = append(items, it)
	}

	created, err := h.Orders.Create(r.Context(), o, items)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to create order")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	WorkName             *string        `json:"work_name"`
	Description          *string        `json:"description"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date"`
	Discount             *string        `json:"discount"`
	SpecialInstructions  *string        `json:"special_instructions"`
	InternalNotes        *string        `json:"internal_notes"`
	Items                *[]itemRequest `json:"items"`
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	p := UpdateParams{
		WorkName:             req.WorkName,
		Description:          req.Description,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Discount:             req.Discount,
		SpecialInstructions:  req.SpecialInstructions,
		InternalNotes:        req.InternalNotes,
	}
	if req.Items != nil {
		items := make([]Item, 0, len(*req.Items))
		for _, ir := range *req.Items {
			it, err := ir.toItem()
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid item amount")
				return
			}
			items = append(items, it)
		}
		p.Items = items
	}

	o, err := h.Orders.Update(r.Context(), id, p)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, o)
}

type patchStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	staff := api.StaffFromContext(r.Context())
	if staff == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing staff identity")
		return
	}
	id, ok := urlID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	next, err := workflow.ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	entry, err := h.Lifecycle.Transition(r.Context(), id, next, req.Notes, &staff.ID)
	if err != nil {
		var illegal *IllegalTransitionError
		switch {
		case errors.As(err, &illegal):
			api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", illegal.Error())
		case errors.Is(err, ErrConflict):
			api.WriteError(w, http.StatusConflict, "CONFLICT", "order status changed concurrently, reload and retry")
		case errors.Is(err, ErrNotFound):
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		default:
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		}
		return
	}
	api.WriteJSON(w, http.StatusOK, entry)
}

func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	entries, err := h.Lifecycle.History(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (h Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	p, err := h.Lifecycle.Progress(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
			return
		}
		if errors.Is(err, workflow.ErrUnknownStatus) {
			api.WriteError(w, http.StatusConflict, "UNKNOWN_STATUS", "order carries a retired status code")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func writeOrderError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}
	api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}
