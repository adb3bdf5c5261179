// Seeds a dev database with a few customers and orders so the client has
// something to render. Safe to run repeatedly; it just adds more rows.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"sapaghor/internal/customer"
	"sapaghor/internal/finance"
	"sapaghor/internal/history"
	"sapaghor/internal/order"
	"sapaghor/internal/workflow"
	"sapaghor/pkg/config"
	"sapaghor/pkg/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pool.Close()

	customers := customer.NewRepository(pool)
	orders := order.NewRepository(pool, history.NewRepository(pool))
	lifecycle := order.NewLifecycle(orders)
	money := finance.NewRepository(pool)

	str := func(s string) *string { return &s }

	c1, err := customers.Create(ctx, &customer.Customer{
		CompanyName:   "Rahim Traders",
		ContactPerson: str("Abdul Rahim"),
		Phone:         str("01711000001"),
		City:          str("Dhaka"),
		Category:      str("wholesale"),
		CreditLimit:   decimal.NewFromInt(50000),
	})
	if err != nil {
		log.Fatalf("seed customer: %v", err)
	}
	c2, err := customers.Create(ctx, &customer.Customer{
		CompanyName: "Modhumoti Press Club",
		Phone:       str("01711000002"),
		City:        str("Narayanganj"),
		CreditLimit: decimal.NewFromInt(20000),
	})
	if err != nil {
		log.Fatalf("seed customer: %v", err)
	}

	o1, err := orders.Create(ctx, &order.Order{
		CustomerID: c1.ID,
		OrderType:  order.TypeRegular,
		WorkName:   str("Wedding card, 500 pcs"),
		DesignFee:  decimal.NewFromInt(500),
	}, []order.Item{
		{
			ProductName: "Wedding card",
			Quantity:    500,
			UnitPrice:   decimal.RequireFromString("12.50"),
			TotalPrice:  decimal.RequireFromString("6250.00"),
		},
	})
	if err != nil {
		log.Fatalf("seed order: %v", err)
	}

	// Walk the first order a few stages down the track.
	for _, s := range []workflow.Status{
		workflow.StatusDesignSent,
		workflow.StatusProofGiven,
		workflow.StatusProofComplete,
	} {
		if _, err := lifecycle.Transition(ctx, o1.ID, s, nil, nil); err != nil {
			log.Fatalf("seed transition %s: %v", s, err)
		}
	}

	if _, err := money.RecordPayment(ctx, &finance.Payment{
		OrderID:       o1.ID,
		Amount:        decimal.NewFromInt(3000),
		PaymentType:   "advance",
		PaymentMethod: "cash",
	}); err != nil {
		log.Fatalf("seed payment: %v", err)
	}

	if _, err := orders.Create(ctx, &order.Order{
		CustomerID: c2.ID,
		OrderType:  order.TypePreOrder,
		WorkName:   str("Annual magazine, 200 pcs"),
	}, []order.Item{
		{
			ProductName: "Magazine",
			Quantity:    200,
			UnitPrice:   decimal.RequireFromString("85.00"),
			TotalPrice:  decimal.RequireFromString("17000.00"),
		},
	}); err != nil {
		log.Fatalf("seed order: %v", err)
	}

	fmt.Println("seeded dev data")
}
