package main

import (
	"time"

	"github.com/fanzhub/fanzhub/config"
	"github.com/fanzhub/fanzhub/fanz"
	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/routes"
	"github.com/fanzhub/fanzhub/store"
	"github.com/fanzhub/fanzhub/utils"
	"github.com/fanzhub/fanzhub/voting"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Target{},
		&models.VoteRecord{},
		&models.DailyQuota{},
		&models.RewardGrant{},
		&models.Notification{},
		&models.PageView{},
	)

	st := store.New(db)

	dispatcher := voting.NewDispatcher(
		st,
		fanz.NewMintClient(cfg.MintServiceURL),
		st,
		cfg.CompletionBonusPoints,
		cfg.DailyMintAmount,
		time.Duration(cfg.MintDelaySeconds)*time.Second,
		utils.Sugar,
	)

	engine := &voting.Engine{
		Voters:         st,
		Targets:        st,
		Ledger:         st,
		Quota:          st,
		Weights:        &voting.WeightResolver{Source: fanz.NewRedisHoldings(utils.GetRedis())},
		Notary:         fanz.NewNotaryClient(cfg.NotaryServiceURL),
		Dispatcher:     dispatcher,
		BaseDailyVotes: cfg.BaseDailyVotes,
		VotesPerLevel:  cfg.VotesPerLevel,
		Exempt:         config.IsAdminUsername,
		Log:            utils.Sugar,
	}

	r := routes.SetupRouter(db, engine, st)

	// Purge stale read notifications in the background (best-effort)
	utils.StartNotificationJanitor(time.Hour, 30*24*time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
