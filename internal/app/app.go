package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/toyverse/storefront/config"
	"github.com/toyverse/storefront/internal/adapter/catalog"
	"github.com/toyverse/storefront/internal/adapter/httphandler"
	"github.com/toyverse/storefront/internal/adapter/kafka"
	"github.com/toyverse/storefront/internal/adapter/storage"
	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/port"
	"github.com/toyverse/storefront/internal/core/service"
	"github.com/toyverse/storefront/pkg/retry"
	"github.com/toyverse/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const serdeInitAttempts = 5

// An eventsLeg holds the optional Kafka components: the cart events
// producer, the activity processor and the activity view. Left zero
// when no seed brokers are configured.
type eventsLeg struct {
	serde     schema.Serde
	producer  kafka.CartEventsProducer
	processor *kafka.CartActivityProcessor
	view      *kafka.CartActivityView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	products   []domain.Product
	categories []string
	cartRepo   storage.CartRepository
	events     eventsLeg
	cartSvc    *service.CartService
	catalogSvc service.CatalogService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalogData()
	app.initCartStorage()
	if cfg.EventsEnabled() {
		app.initEventsLeg()
	}
	app.initCoreServices()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalogData() {
	const op = "App.initCatalogData"

	products, categories, err := catalog.Load(app.cfg.CatalogFile)
	if err != nil {
		app.fallDown(op, err)
	}

	app.products = products
	app.categories = categories
	slog.Info("catalog is loaded",
		"op", op, "nProducts", len(products))
}

func (app *App) initCartStorage() {
	const op = "App.initCartStorage"

	repo, err := storage.NewCartRepository(app.cfg.CartDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.cartRepo = repo
}

func (app *App) initEventsLeg() {
	const op = "App.initEventsLeg"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	eventsTopic := app.cfg.Broker.Topics.CartEvents
	activityGroup := app.cfg.Broker.Topics.CartActivityGroup

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	// the registry may still be warming up at boot
	subject := eventsTopic + "-value"
	serde, err := retry.DoWithResult(ctx,
		retry.Config{MaxAttempts: serdeInitAttempts},
		func() (schema.Serde, error) {
			return schema.NewSerdeCartEventV1(
				ctx,
				schema.SubjectOpt(subject),
				schema.SchemaIdentifierOpt(schemaCreater),
			)
		})
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, eventsTopic),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	processor, err := kafka.NewCartActivityProcessor(
		kafka.CartActivityProcessorConfig{
			SeedBrokers: seedBrokers,
			Stream:      eventsTopic,
			Group:       activityGroup,
			Serde:       serde,
		})
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewCartActivityView(
		kafka.CartActivityViewConfig{
			SeedBrokers: seedBrokers,
			Group:       activityGroup,
		})
	if err != nil {
		app.fallDown(op, err)
	}

	app.events = eventsLeg{serde, producer, processor, view}
}

func (app *App) initCoreServices() {
	var events port.CartEventsProducer
	var activity port.ProductActivityViewer
	if app.cfg.EventsEnabled() {
		events = app.events.producer
		activity = app.events.view
	}

	app.cartSvc = service.NewCart(app.ctx, app.cartRepo, events)
	app.catalogSvc = service.NewCatalog(
		app.products, app.categories, activity,
	)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.catalogSvc)
	httphandler.RegisterCart(mux, app.cartSvc, app.catalogSvc)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

// Run starts the http server and, when configured, the activity
// processor and view. Blocks until the Kafka components report ready.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.cfg.EventsEnabled() {
		var wg sync.WaitGroup
		wg.Add(2)
		go app.events.processor.Run(app.ctx, stopFn, &wg)
		go app.events.view.Run(app.ctx, stopFn, &wg)
		wg.Wait()
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.cfg.EventsEnabled() {
		app.events.processor.Close()
		app.events.producer.Close()
	}
	app.cartRepo.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
