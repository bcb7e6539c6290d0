package main

import (
	"WooWithFeed/internal/cleanup"
	"WooWithFeed/internal/config"
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/feedapi"
	"WooWithFeed/internal/sync"
	"WooWithFeed/internal/version"
	"WooWithFeed/internal/webhook"
	"WooWithFeed/internal/wooapi"
	"WooWithFeed/pkg/logging"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/julienschmidt/httprouter"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logging.GetLogger()
	logger.Info("Start Main")
	v := version.GetVersion()
	logger.Infof("Version %s", v.String())
	defer logger.Info("End Main")

	cfg := config.GetConfig()

	cleanupMode := flag.Bool("cleanup", false, "delete remote products absent from the store or inactive, then exit")
	exclude := flag.String("exclude", "", "comma-separated SKUs the cleanup must never delete")
	dryRun := flag.Bool("dry-run", false, "log intended changes without applying them")
	flag.Parse()

	if *cleanupMode {
		runCleanup(cfg, *exclude, *dryRun)
		return
	}

	go sync.SyncServiceWithRecovered()

	db, err := sqlx.Connect("sqlite3", cfg.DBSQLITE.DB)
	if err != nil {
		logger.Fatalf("failed sqlx.Connect; %v", err)
	}

	router := httprouter.New()
	webhookHandler := webhook.NewHandler(db, cfg.WEBHOOK.Secret)
	router.POST("/webhook/product", webhookHandler.HandlerWebhookProduct)

	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.SERVICE.PORT), router))
}

func runCleanup(cfg *config.Config, exclude string, dryRun bool) {
	logger := logging.GetLogger()

	excluded, err := cleanup.LoadExclusions(cfg.CLEANUP.ExclusionFile, exclude)
	if err != nil {
		logger.Fatalf("failed cleanup.LoadExclusions; %v", err)
	}

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

	_, err = cleanup.NewRunner(db, wooapi.GetAPI(), excluded, dryRun).Run()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	logger := logging.GetLogger()

	logger.Println("Start main init...")
	defer logger.Println("End main init.")
	cfg := config.GetConfig()

	_ = feedapi.NewAPI(cfg.FEED.URL, cfg.FEED.Token, feedapi.ListParams{
		Currency: cfg.FEED.Currency,
		Lang:     cfg.FEED.Lang,
	})

	_ = wooapi.NewAPI(cfg.WOOCOMMERCE.URL, cfg.WOOCOMMERCE.Key, cfg.WOOCOMMERCE.Secret, cfg.WOOCOMMERCE.RPS)

	if database.Exists(cfg.DBSQLITE.DB) != true {
		logger.Info(cfg.DBSQLITE.DB, " not exist")
		err := database.CreateDB(cfg.DBSQLITE.DB)
		if err != nil {
			logger.Fatal("failed main init; database.CreateDB; ", err)
		}
	} else {
		logger.Info(cfg.DBSQLITE.DB, " exist")
	}

	if cfg.LOG.Debug == 1 {
		logging.SetLevel(logrus.DebugLevel)
	} else {
		logging.SetLevel(logrus.InfoLevel)
	}
}
