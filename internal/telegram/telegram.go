package telegram

import (
	"WooWithFeed/internal/config"
	"WooWithFeed/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// SendMessageToTelegramWithLogError reports an operational event to the
// configured chat. Delivery problems are logged, never returned; reporting
// must not break the sync loop. With no bot token configured the message only
// goes to the log.
func SendMessageToTelegramWithLogError(text string) {

	logger := logging.GetLogger()
	logger.Error(text)

	cfg := config.GetConfig()
	if cfg.TELEGRAM.BotToken == "" || cfg.TELEGRAM.ChatID == 0 {
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TELEGRAM.BotToken)
	if err != nil {
		logger.Errorf("failed tgbotapi.NewBotAPI(); %v", err)
		return
	}
	bot.Debug = cfg.TELEGRAM.Debug == 1

	msg := tgbotapi.NewMessage(cfg.TELEGRAM.ChatID, text)
	_, err = bot.Send(msg)
	if err != nil {
		logger.Errorf("failed bot.Send(); %v", err)
	}
}
