package sync

import (
	"WooWithFeed/internal/config"
	"WooWithFeed/internal/feedapi"
	"WooWithFeed/internal/imagemap"
	"WooWithFeed/internal/pricing"
	"WooWithFeed/internal/telegram"
	"WooWithFeed/internal/wooapi"
	"WooWithFeed/pkg/logging"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SyncServiceWithRecovered runs SyncService and restarts it after a panic, at
// most 3 times, re-initializing the API singletons before each restart.
func SyncServiceWithRecovered() {
	logger := logging.GetLogger()
	logger.Println("Start Service SyncServiceWithRecovered")
	defer logger.Println("End Service SyncServiceWithRecovered")

	cfg := config.GetConfig()

	index := 0 // restarts after panic
	for {
		SyncService()
		index++

		_ = feedapi.NewAPI(cfg.FEED.URL, cfg.FEED.Token, feedapi.ListParams{
			Currency: cfg.FEED.Currency,
			Lang:     cfg.FEED.Lang,
		})
		_ = wooapi.NewAPI(cfg.WOOCOMMERCE.URL, cfg.WOOCOMMERCE.Key, cfg.WOOCOMMERCE.Secret, cfg.WOOCOMMERCE.RPS)

		if index == 3 {
			break
		}
	}
	telegram.SendMessageToTelegramWithLogError("restart of SyncService() abandoned")
}

// SyncService is the main loop: feed reconciliation on its timer, platform
// push on its own. A panic is reported and handed to the restart wrapper.
func SyncService() {

	logger := logging.GetLogger()
	logger.Println("Start Service Sync")
	defer logger.Println("End Service Sync")

	defer func() {
		if r := recover(); r != nil {
			telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("critical error, sync will be restarted: %v", r))
		}
	}()

	cfg := config.GetConfig()

	db, err := sqlx.Connect("sqlite3", cfg.DBSQLITE.DB)
	if err != nil {
		logger.Fatalf("failed sqlx.Connect; %v", err)
	}
	defer func(db *sqlx.DB) {
		err := db.Close()
		if err != nil {
			logger.Errorf("failed db.Close(); %v", err)
		}
	}(db)

	feedTimeout := time.Duration(cfg.FEEDSYNC.Timeout) * time.Second
	if feedTimeout <= 0 {
		feedTimeout = 15 * time.Minute
	}
	wooTimeout := time.Duration(cfg.WOOSYNC.Timeout) * time.Second
	if wooTimeout <= 0 {
		wooTimeout = time.Minute
	}

	lastFeedRun := time.Time{}
	lastWooRun := time.Time{}

	for {
		if cfg.FEEDSYNC.Enabled == 1 && time.Since(lastFeedRun) >= feedTimeout {
			lastFeedRun = time.Now()
			runFeedSync(db, cfg)
		}

		if cfg.WOOSYNC.Enabled == 1 && time.Since(lastWooRun) >= wooTimeout {
			lastWooRun = time.Now()
			runWooSync(db, cfg)
		}

		time.Sleep(time.Second)
	}
}

func runFeedSync(db *sqlx.DB, cfg *config.Config) {

	logger := logging.GetLogger()

	timeStart := time.Now()
	engine := NewFeedEngine(db, feedapi.GetAPI(), pricing.FromConfig(cfg), false)
	result := engine.Run()
	if !result.Success {
		telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("feed sync failed: %v", result.Error))
		return
	}
	logger.Infof("feed sync time: %s", time.Since(timeStart))
}

func runWooSync(db *sqlx.DB, cfg *config.Config) {

	logger := logging.GetLogger()

	images, err := imagemap.Load(cfg.IMAGEMAP.Path)
	if err != nil {
		telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("image map load failed: %v", err))
		images = imagemap.Map{}
	}

	timeStart := time.Now()
	engine := NewWooEngine(db, wooapi.GetAPI(), cfg.WOOSYNC.Limit, cfg.WOOSYNC.BatchSize,
		cfg.WOOSYNC.DescriptionTemplate, images, false)
	result := engine.Run()
	if !result.Success {
		telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("woo sync failed: %v", result.Error))
		return
	}
	if result.Stats.Errors > 0 {
		telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("woo sync finished with %d item errors", result.Stats.Errors))
	}
	logger.Infof("woo sync time: %s", time.Since(timeStart))
}
