package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/globalremit/teller/internal/config"
	"github.com/globalremit/teller/internal/database"
	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/directory"
	"github.com/globalremit/teller/internal/events"
	"github.com/globalremit/teller/internal/rates"
	"github.com/globalremit/teller/internal/service"
	"github.com/globalremit/teller/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.Database.Path != database.InMemory {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			log.Fatalf("mkdir db dir: %v", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDemo(ctx, db); err != nil {
		log.Fatalf("seed demo data: %v", err)
	}

	// repositories
	clientRepo := repository.NewClientRepo(db)
	transferRepo := repository.NewTransferRepo(db)
	payoutRepo := repository.NewPayoutRepo(db)
	registerRepo := repository.NewRegisterRepo(db)

	var sink events.Sink = events.Discard
	if cfg.Analytics.Path != "" {
		fs, err := events.NewFileSink(cfg.Analytics.Path)
		if err != nil {
			log.Printf("warn: analytics disabled: %v", err)
		} else {
			defer fs.Close()
			sink = fs
		}
	}

	board := rates.NewBoard()

	transfers := &service.TransferService{
		DB:        db,
		Transfers: transferRepo,
		Payouts:   payoutRepo,
		Register:  registerRepo,
		Events:    sink,
		Delay:     time.Duration(cfg.Transfer.SubmitDelayMS) * time.Millisecond,
	}
	payouts := &service.PayoutService{DB: db, Payouts: payoutRepo, Transfers: transferRepo, Register: registerRepo, Events: sink}
	exchange := &service.ExchangeService{Board: board, Transfers: transferRepo, Events: sink}
	reports := &service.ReportService{Transfers: transferRepo}
	clients := &directory.Service{Clients: clientRepo}
	maintenance := &service.MaintenanceService{DB: db}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Clients: clientRepo, Transfers: transferRepo, Payouts: payoutRepo, Register: registerRepo},
		tui.Services{Transfers: transfers, Payouts: payouts, Exchange: exchange, Reports: reports, Directory: clients, Maintenance: maintenance},
		board,
		loc,
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
