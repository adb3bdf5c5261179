package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sapaghor/internal/api"
	"sapaghor/internal/customer"
	"sapaghor/internal/dashboard"
	"sapaghor/internal/finance"
	"sapaghor/internal/history"
	"sapaghor/internal/order"
	"sapaghor/internal/workflow"
	"sapaghor/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	historyRepo := history.NewRepository(deps.DB)
	orderRepo := order.NewRepository(deps.DB, historyRepo)
	orderHandlers := order.Handlers{
		Orders:    orderRepo,
		Lifecycle: order.NewLifecycle(orderRepo),
	}
	customerHandlers := customer.Handlers{Customers: customer.NewRepository(deps.DB)}
	financeHandlers := finance.Handlers{Finance: finance.NewRepository(deps.DB)}
	dashboardHandlers := dashboard.Handlers{Dashboard: dashboard.NewRepository(deps.DB)}

	r.Route("/v1", func(r chi.Router) {
		// The React client runs on its own origin.
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.ClientAllowedOrigins,
		}))
		r.Use(api.StaffSessionAuth(deps.Cfg))

		r.Get("/workflow/stages", listStages)

		r.Get("/dashboard/stats", dashboardHandlers.Stats)
		r.Get("/dashboard/orders-by-status", dashboardHandlers.OrdersByStatus)

		r.Get("/orders", orderHandlers.List)
		r.Post("/orders", orderHandlers.Create)
		r.Get("/orders/{id}", orderHandlers.Get)
		r.Put("/orders/{id}", orderHandlers.Update)
		r.Get("/orders/{id}/progress", orderHandlers.Progress)
		r.Patch("/orders/{id}/status", orderHandlers.PatchStatus)
		r.Get("/orders/{id}/history", orderHandlers.History)

		r.Get("/customers", customerHandlers.List)
		r.Post("/customers", customerHandlers.Create)
		r.Get("/customers/{id}", customerHandlers.Get)
		r.Put("/customers/{id}", customerHandlers.Update)
		r.Delete("/customers/{id}", customerHandlers.Delete)

		r.Get("/payments", financeHandlers.ListPayments)
		r.Post("/payments", financeHandlers.CreatePayment)
		r.Get("/invoices", financeHandlers.ListInvoices)
		r.Post("/invoices", financeHandlers.CreateInvoice)
		r.Get("/invoices/{id}", financeHandlers.GetInvoice)
		r.Post("/invoices/{id}/send", financeHandlers.SendInvoice)
		r.Get("/expenses", financeHandlers.ListExpenses)
		r.Post("/expenses", financeHandlers.CreateExpense)
		r.Get("/expense-categories", financeHandlers.ExpenseCategories)
	})

	return r
}

type stageResponse struct {
	Code    workflow.Status `json:"code"`
	LabelEn string          `json:"label_en"`
	LabelBn string          `json:"label_bn"`
}

func listStages(w http.ResponseWriter, r *http.Request) {
	stages := workflow.Stages()
	out := make([]stageResponse, 0, len(stages))
	for _, s := range stages {
		l := workflow.LabelFor(s)
		out = append(out, stageResponse{Code: s, LabelEn: l.En, LabelBn: l.Bn})
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"stages": out})
}
