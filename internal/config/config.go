package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/gcfg.v1"
)

const (
	ROUNDING_WHOLE = "whole"
	ROUNDING_HALF  = "half"
	ROUNDING_NONE  = "none"
)

type (
	Config struct {
		FEED struct {
			URL      string
			Token    string
			Currency string
			Lang     string
		}
		WOOCOMMERCE struct {
			URL    string
			Key    string
			Secret string
			RPS    int
		}
		DBSQLITE struct {
			DB string
		}
		FEEDSYNC struct {
			Timeout int
			Enabled int
		}
		WOOSYNC struct {
			Timeout             int
			Limit               int
			BatchSize           int
			Enabled             int
			DescriptionTemplate string
		}
		PRICING struct {
			Markup   int
			Vat      int
			Rounding string
		}
		IMAGEMAP struct {
			Path string
		}
		WEBHOOK struct {
			Secret string
		}
		TELEGRAM struct {
			BotToken string
			ChatID   int64
			Debug    int
		}
		SERVICE struct {
			PORT int
		}
		LOG struct {
			Debug int
		}
		CLEANUP struct {
			ExclusionFile string
		}
	}
)

var cfg Config
var once sync.Once

// GetConfig reads ./config/config.ini exactly once and keeps the result
// for the lifetime of the process.
func GetConfig() *Config {
	once.Do(func() {
		err := os.MkdirAll("logs", 0770)
		if err != nil {
			fmt.Println(err)
		}

		file, err := os.OpenFile("logs/config.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			fmt.Println(err)
		}

		multiWriter := io.MultiWriter(file, os.Stdout)

		logger := log.New(multiWriter, "MAIN ", log.Ldate|log.Ltime|log.Lshortfile)

		logger.Print("Config:>Read application configurations")

		err = gcfg.ReadFileInto(&cfg, "./config/config.ini")
		if err != nil {
			logger.Fatalf("Config:>Failed to parse gcfg data: %s", err)
		}

		setDefaults(&cfg)

		err = cfg.Validate()
		if err != nil {
			logger.Fatalf("Config:>Invalid config: %s", err)
		}

		logger.Print("Config:>Config is read")
	})

	return &cfg
}

func setDefaults(c *Config) {
	if c.WOOSYNC.BatchSize == 0 {
		c.WOOSYNC.BatchSize = 100
	}
	if c.WOOSYNC.Limit == 0 {
		c.WOOSYNC.Limit = 1000
	}
	if c.WOOCOMMERCE.RPS == 0 {
		c.WOOCOMMERCE.RPS = 5
	}
	if c.DBSQLITE.DB == "" {
		c.DBSQLITE.DB = "db.db"
	}
	if c.PRICING.Rounding == "" {
		c.PRICING.Rounding = ROUNDING_WHOLE
	}
}

func (c *Config) Validate() error {
	err := validation.ValidateStruct(&c.FEED,
		validation.Field(&c.FEED.URL, validation.Required, is.URL),
		validation.Field(&c.FEED.Token, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("FEED: %w", err)
	}

	err = validation.ValidateStruct(&c.WOOCOMMERCE,
		validation.Field(&c.WOOCOMMERCE.URL, validation.Required, is.URL),
		validation.Field(&c.WOOCOMMERCE.Key, validation.Required),
		validation.Field(&c.WOOCOMMERCE.Secret, validation.Required),
		validation.Field(&c.WOOCOMMERCE.RPS, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("WOOCOMMERCE: %w", err)
	}

	err = validation.ValidateStruct(&c.PRICING,
		validation.Field(&c.PRICING.Markup, validation.Min(0), validation.Max(1000)),
		validation.Field(&c.PRICING.Vat, validation.Min(0), validation.Max(100)),
		validation.Field(&c.PRICING.Rounding,
			validation.In(ROUNDING_WHOLE, ROUNDING_HALF, ROUNDING_NONE)),
	)
	if err != nil {
		return fmt.Errorf("PRICING: %w", err)
	}

	err = validation.ValidateStruct(&c.WOOSYNC,
		validation.Field(&c.WOOSYNC.BatchSize, validation.Min(1), validation.Max(100)),
		validation.Field(&c.WOOSYNC.Limit, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("WOOSYNC: %w", err)
	}

	return nil
}
