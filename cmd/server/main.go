package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"coursemarket/internal/auth"
	"coursemarket/internal/config"
	"coursemarket/internal/firebase"
	"coursemarket/internal/identity"
	"coursemarket/internal/payment"
	"coursemarket/internal/repository"
	"coursemarket/internal/router"
	"coursemarket/internal/server"

	"github.com/golang/glog"
)

func main() {
	// glog reads its flags (-logtostderr, -v, ...) from the command line.
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Panicf("❌ %v", err)
	}

	repo, err := repository.NewFirebaseRepository(ctx, app)
	if err != nil {
		log.Panicf("❌ %v", err)
	}
	defer repo.Close()

	provider, err := auth.NewFirebaseProvider(ctx, app)
	if err != nil {
		log.Panicf("❌ %v", err)
	}

	verifier, err := identity.NewVerifier(cfg.IdentityWebhookSecret)
	if err != nil {
		log.Panicf("❌ %v", err)
	}

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	if err := server.Start(ctx, cfg, router.NewServices(cfg, repo, provider, verifier, gateway)); err != nil {
		log.Panicf("❌ %v", err)
	}
	log.Println("👋 Server stopped")
}
