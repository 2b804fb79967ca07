package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/tabletap/staff-api/internal/checkout"
	"github.com/tabletap/staff-api/internal/config"
	"github.com/tabletap/staff-api/internal/handler"
	"github.com/tabletap/staff-api/internal/order"
	"github.com/tabletap/staff-api/internal/payqr"
	"github.com/tabletap/staff-api/internal/router"
	"github.com/tabletap/staff-api/internal/upstream"
	"github.com/tabletap/staff-api/internal/ws"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.RestaurantID == "" {
		log.Fatal().Msg("RESTAURANT_ID is required")
	}

	session := upstream.NewSession()
	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, session, log)

	hub := ws.NewHub()
	go hub.Run()

	notifier := ws.NewOrderNotifier(hub, cfg.RestaurantID)
	machine := order.NewMachine(client, notifier, log)

	checkoutSvc := checkout.NewService(client, cfg.RestaurantID, func(tableNumber int) {
		log.Info().Int("table", tableNumber).Msg("table released for cleaning")
	}, log)

	generator := payqr.NewGenerator(client, cfg.Language, cfg.QRImageHosts, log)
	sessions := handler.NewSessionRegistry()

	r := router.New(cfg, router.Deps{
		Auth:       handler.NewAuthHandler(client, sessions, cfg.JWTSecret),
		Orders:     handler.NewOrderHandler(client, machine),
		Checkout:   handler.NewCheckoutHandler(checkoutSvc),
		Payments:   handler.NewPaymentHandler(generator),
		Promotions: handler.NewPromotionHandler(client),
		Reports:    handler.NewReportHandler(client, cfg.Language),
		Hub:        hub,
		Log:        log,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Msg("starting staff API")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
