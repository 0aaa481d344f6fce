package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tenderwork/db"
	"tenderwork/db/migrations"
	"tenderwork/internal/config"
	"tenderwork/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.PostgresConn == "" {
		log.Fatal("POSTGRES_CONN is not set")
	}

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		log.Fatalf("cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	if err := migrations.Run(dbConn.DB); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	store := db.NewStorage(dbConn)
	h := handlers.NewHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Get("/tenders", h.GetTendersHandler)
		r.Post("/tenders/new", h.CreateTenderHandler)
		r.Get("/tenders/my", h.GetUserTendersHandler)
		r.Get("/tenders/{tenderId}/status", h.GetTenderStatusHandler)
		r.Put("/tenders/{tenderId}/status", h.UpdateTenderStatusHandler)
		r.Patch("/tenders/{tenderId}/edit", h.EditTenderHandler)
		r.Put("/tenders/{tenderId}/rollback/{version}", h.RollbackTenderHandler)

		r.Post("/bids/new", h.CreateBidHandler)
		r.Get("/bids/my", h.GetUserBidsHandler)
		r.Get("/bids/{tenderId}/list", h.GetBidsForTenderHandler)
		r.Get("/bids/{bidId}/status", h.GetBidStatusHandler)
		r.Put("/bids/{bidId}/status", h.UpdateBidStatusHandler)
		r.Patch("/bids/{bidId}/edit", h.EditBidHandler)
		r.Put("/bids/{bidId}/rollback/{version}", h.RollbackBidHandler)
		r.Put("/bids/{bidId}/submit_decision", h.SubmitBidDecisionHandler)
		r.Put("/bids/{bidId}/feedback", h.SendFeedbackHandler)
		r.Get("/bids/{tenderId}/reviews", h.GetBidReviewsHandler)
	})

	log.Printf("starting server on %s", cfg.ServerAddress)
	log.Fatal(http.ListenAndServe(cfg.ServerAddress, r))
}
