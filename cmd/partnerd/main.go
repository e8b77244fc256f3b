package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/iceinventory/partner-core/delivery"
	"github.com/iceinventory/partner-core/internal/config"
	"github.com/iceinventory/partner-core/location"
	"github.com/iceinventory/partner-core/session"
	"github.com/iceinventory/partner-core/storage/filestore"
	"github.com/iceinventory/partner-core/storage/redisstore"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// partnerd runs the client core headless: it restores the persisted session,
// revalidates it against the backend, and keeps reporting location until
// stopped. Useful for depot gateways that track a vehicle-mounted device.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running partnerd: %s\n", err)
	}
	log.Printf("partnerd stopped\n")
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
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	store, err := openStore(c)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	client := delivery.NewClient(c.GetAPIBaseURL(),
		delivery.WithTimeout(c.GetHTTPTimeout()),
		delivery.WithLogger(logger.With().Str("component", "delivery").Logger()),
	)

	var reporter *location.Reporter
	manager, err := session.NewManager(store, client,
		session.WithLogger(logger.With().Str("component", "session").Logger()),
		session.WithReporterStop(func() {
			if reporter != nil {
				reporter.Stop()
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("session manager: %w", err)
	}

	reporter = location.NewReporter(
		envPositioner{},
		client,
		manager,
		location.WithInterval(c.GetLocationInterval()),
		location.WithSuppressedStatuses(c.GetSuppressedStatuses()),
		location.WithReporterLogger(logger.With().Str("component", "location").Logger()),
	)

	ctx := context.Background()
	if err := manager.Restore(ctx); err != nil {
		return fmt.Errorf("session restore: %w", err)
	}
	if !manager.Authenticated() {
		logger.Warn().Msg("no valid session persisted; log in via the app first")
		return nil
	}

	if err := reporter.Start(); err != nil {
		return fmt.Errorf("start reporter: %w", err)
	}

	waitForStopSignal()
	reporter.Stop()
	return nil
}

func openStore(c config.Config) (session.Store, error) {
	if addr := c.GetRedisAddr(); addr != "" {
		return redisstore.New(redis.NewClient(&redis.Options{Addr: addr})), nil
	}
	return filestore.New(c.GetDataFolder())
}

// envPositioner reads fixed coordinates from the environment. Gateways are
// stationary; a real device build substitutes the platform provider here.
type envPositioner struct{}

func (envPositioner) Position(context.Context) (location.Sample, error) {
	lat, err := strconv.ParseFloat(config.GetEnv("DEVICE_LAT", "0"), 64)
	if err != nil {
		return location.Sample{}, fmt.Errorf("parse DEVICE_LAT: %w", err)
	}
	lng, err := strconv.ParseFloat(config.GetEnv("DEVICE_LNG", "0"), 64)
	if err != nil {
		return location.Sample{}, fmt.Errorf("parse DEVICE_LNG: %w", err)
	}
	return location.Sample{Latitude: lat, Longitude: lng}, nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
