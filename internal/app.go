package internal

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dushixiang/folio/internal/config"
	"github.com/dushixiang/folio/internal/handler"
	"github.com/dushixiang/folio/internal/models"
	"github.com/dushixiang/folio/internal/service"
	"github.com/dushixiang/folio/internal/telegram"
	"github.com/dushixiang/folio/pkg/nostd"
	"github.com/dushixiang/folio/web"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewFolioApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewFolioApp() orz.Application {
	return &FolioApp{}
}

var _ orz.Application = (*FolioApp)(nil)

type AppComponents struct {
	KpiHandler    *handler.KpiHandler
	IngestHandler *handler.IngestHandler

	IngestService  *service.IngestService
	KpiService     *service.KpiService
	AccountService *service.AccountService

	Tg *telegram.Telegram
}

type FolioApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *FolioApp) GetComponents() *AppComponents {
	return r.components
}

func (r *FolioApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Broker{}, models.Account{}, models.SourceFile{},
		models.CashFlow{}, models.Valuation{}, models.IngestReport{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().RequestURI
			if strings.HasPrefix(path, "/api") {
				return true
			}
			return false
		},
		Root:       "",
		Index:      "index.html",
		HTML5:      true,
		Browse:     false,
		IgnoreBase: false,
		Filesystem: http.FS(web.Assets()),
	}))

	api := e.Group("/api")
	{
		if r.components.KpiHandler != nil {
			r.components.KpiHandler.RegisterRoutes(api)
		}
		if r.components.IngestHandler != nil {
			r.components.IngestHandler.RegisterRoutes(api)
		}
	}

	return nil
}

func (r *FolioApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("Folio Portfolio Tracker Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	if components.IngestService == nil {
		return fmt.Errorf("ingest service not available")
	}

	if components.Tg != nil {
		components.Tg.Start()
	}

	if err := components.IngestService.StartWorker(context.Background()); err != nil {
		return fmt.Errorf("failed to start ingest worker: %v", err)
	}
	return nil
}
