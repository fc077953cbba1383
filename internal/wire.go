//go:build wireinject
// +build wireinject

package internal

import (
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/folio/internal/config"
	"github.com/dushixiang/folio/internal/extractor"
	"github.com/dushixiang/folio/internal/handler"
	"github.com/dushixiang/folio/internal/service"
	"github.com/dushixiang/folio/internal/telegram"
)

const (
	telegramHTTPTimeout = 10 * time.Second
)

var (
	handlerSet = wire.NewSet(
		handler.NewKpiHandler,
		handler.NewIngestHandler,
	)

	serviceSet = wire.NewSet(
		provideRegistry,
		provideTextReader,
		service.NewIngestService,
		service.NewKpiService,
		service.NewAccountService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		serviceSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideRegistry provides the statement extractor registry
func provideRegistry() *extractor.Registry {
	return extractor.Default()
}

// provideTextReader provides the PDF text reader
func provideTextReader() service.TextReader {
	return service.NewPDFTextReader()
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}
