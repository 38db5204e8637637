// README: Entry point; loads config, wires services, starts HTTP server and background tickers.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shuttle/internal/availability"
	"shuttle/internal/config"
	httptransport "shuttle/internal/http"
	"shuttle/internal/infra"
	"shuttle/internal/modules/booking"
	"shuttle/internal/modules/itinerary"
	"shuttle/internal/modules/schedule"
	"shuttle/internal/modules/trip"
	"shuttle/internal/modules/vehicle"
	"shuttle/internal/routing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	mapsOracle, err := routing.NewMapsOracle(cfg.Maps.APIKey, time.Duration(cfg.Availability.OracleTimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatalf("routing oracle: %v", err)
	}
	oracle := routing.NewCachedOracle(mapsOracle, redisClient)

	scheduleStore := schedule.NewStore(dbPool)
	scheduleSvc := schedule.NewService(scheduleStore)

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore, scheduleSvc)

	vehicleStore := vehicle.NewStore(dbPool)
	resolver := vehicle.NewResolver(vehicleStore)

	planner := itinerary.NewPlanner(oracle, cfg.Availability.MaxDetourPercent)
	itineraryStore := itinerary.NewStore(dbPool)
	itinerarySvc := itinerary.NewService(itineraryStore, planner, vehicleStore, cfg.Availability.AdmitRetries)

	routeStore := availability.NewRouteStore(dbPool)
	availabilitySvc := availability.NewService(scheduleSvc, tripSvc, resolver, routeStore, oracle, cfg.Availability)

	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, tripSvc)

	server := httptransport.NewServer(httptransport.ServerDeps{
		Availability: availabilitySvc,
		Schedule:     scheduleSvc,
		Trip:         tripSvc,
		Itinerary:    itinerarySvc,
		Booking:      bookingSvc,
	})

	httpServer := &http.Server{Addr: cfg.HTTP.Addr, Handler: server.Routes()}

	go scheduleSvc.RunExpiryTicker(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
