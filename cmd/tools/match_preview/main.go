package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/config"
	"github.com/ignatzorin/designmatch-backend/internal/db"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/scoring"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
)

// match_preview прогоняет подбор для брифа без записи в базу и печатает рейтинг.
// Оценка только по правилам, внешний AI не вызывается.
func main() {
	briefFlag := flag.String("brief", "", "ID брифа")
	timeout := flag.Duration("timeout", time.Minute, "общий таймаут")
	flag.Parse()

	briefID, err := uuid.Parse(*briefFlag)
	if err != nil {
		log.Fatalf("match_preview: нужен -brief <uuid>: %v", err)
	}

	logger.Silence()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	rules := scoring.NewRuleBasedProvider(0)
	uc := matching.NewFindMatchUseCase(
		persistence.NewBriefRepositoryAdapter(conn),
		persistence.NewDesignerRepositoryAdapter(conn),
		persistence.NewMatchRepositoryAdapter(conn),
		rules, nil, nil,
		matching.Config{Concurrency: cfg.Scoring.Concurrency},
	)

	report, err := uc.Preview(ctx, briefID)
	if err != nil {
		log.Fatal(err)
	}
	render(os.Stdout, report)
}
