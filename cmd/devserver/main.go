package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/iceinventory/partner-core/customers"
	"github.com/iceinventory/partner-core/internal/config"
	"github.com/iceinventory/partner-core/internal/devapi"
	"github.com/iceinventory/partner-core/internal/utils"
	"github.com/iceinventory/partner-core/orders"
	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/products"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// devserver serves a fixture-backed copy of the delivery backend so the
// client core can be exercised without the production API.
func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName() + " Dev API")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	api := devapi.New(devapi.WithLogger(logger))
	seedFixtures(api)

	server := &http.Server{Addr: c.GetPort(), Handler: api.Router(c)}
	go listenAndServe(server)
	waitForStopSignal()
	returnError = shutdown(server)
	return returnError
}

// seedFixtures loads a small world: one admin scope, one approved partner,
// two customers, a couple of products and a pending order.
func seedFixtures(api *devapi.Server) {
	admin := "a1"
	p := api.SeedPartner(partner.DeliveryPartner{
		ID:            "p1",
		Name:          "Dev Partner",
		Email:         "partner@example.com",
		Phone:         "5550100",
		AdminEmail:    "admin@example.com",
		Status:        partner.StatusApproved,
		CreatedByUser: admin,
	})
	c1 := api.SeedCustomer(customers.Customer{
		Name:     "Corner Shop",
		ShopName: "Corner Shop",
		Address:  "1 Market Street",
		Phone:    customers.PhoneList{"5550101"},
		Lat:      utils.Ptr(12.9716),
		Lng:      utils.Ptr(77.5946),
	})
	api.SeedCustomer(customers.Customer{
		Name:     "Hill Cafe",
		ShopName: "Hill Cafe",
		Address:  "9 Ridge Road",
		Phone:    customers.PhoneList{"5550102", "5550103"},
	})
	ice := api.SeedProduct(products.Product{Name: "Ice Block 5kg", Price: 40, Unit: "block"})
	api.SeedProduct(products.Product{Name: "Crushed Ice 1kg", Price: 15, Unit: "bag"})
	api.SeedOrder(orders.Order{
		OrderID:           "ORD-1001",
		UserID:            admin,
		CustomerID:        c1.ID,
		CustomerName:      c1.Name,
		CustomerAddress:   c1.Address,
		Items:             []orders.OrderItem{{ProductID: ice.ID, ProductName: ice.Name, Quantity: 3, Price: 40, Total: 120}},
		Total:             120,
		DeliveryStatus:    orders.StatusPending,
		DeliveryPartnerID: p.ID,
	})
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
