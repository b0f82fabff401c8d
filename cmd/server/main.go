// @title Sbis-Yen API
// @version 1.0
// @description API сопоставления названий со справочниками СБИС и сборки актов выпуска, списания и прихода.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:9999
// @BasePath /

package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/database"
	"github.com/vipfat/Sbis-Yen/internal/config"
	"github.com/vipfat/Sbis-Yen/matching"
	"github.com/vipfat/Sbis-Yen/sbis"
	"github.com/vipfat/Sbis-Yen/server"
	"github.com/vipfat/Sbis-Yen/server/handlers"
)

func main() {
	configPath := flag.String("config", "config.json", "путь к JSON файлу конфигурации")
	flag.Parse()

	log.Println("Запуск Sbis-Yen сервера...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := database.NewCatalogsDBWithConfig(cfg.DatabasePath, database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Ошибка открытия базы справочников: %v", err)
	}
	defer db.Close()
	log.Printf("Используется база справочников: %s", cfg.DatabasePath)

	registry := catalog.NewRegistry(catalog.Params{
		Scorer:         matching.NewScorer(cfg.Weights),
		Stemmer:        matching.NewRussianStemmer(),
		Overrides:      catalog.Overrides(cfg.Overrides),
		MinScore:       cfg.MinScore,
		ConfidentScore: cfg.ConfidentScore,
		Logger:         logger,
	})

	reload := func(ctx context.Context) error {
		return loadSnapshot(db, registry)
	}
	if err := reload(context.Background()); err != nil {
		log.Fatalf("Ошибка загрузки справочников: %v", err)
	}
	logCatalogSizes(registry)

	srv := server.New(server.Options{
		Config:   cfg,
		Registry: registry,
		Sender:   newSender(cfg),
		Reload:   reload,
		Logger:   logger,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
}

// loadSnapshot перечитывает справочники и составы из базы и атомарно
// подменяет рабочий снапшот реестра.
func loadSnapshot(db *database.CatalogsDB, registry *catalog.Registry) error {
	sources := []catalog.Source{
		catalog.SourceCompositions,
		catalog.SourceProduction,
		catalog.SourceGoods,
	}

	catalogs := make([]*catalog.Catalog, 0, len(sources))
	for _, source := range sources {
		entries, err := db.LoadCatalog(source)
		if err != nil {
			return err
		}
		catalogs = append(catalogs, catalog.New(source, entries, registry.Stemmer()))
	}

	recipes, err := db.LoadRecipes()
	if err != nil {
		return err
	}

	registry.Swap(catalogs, catalog.NewRecipeBook(recipes))
	return nil
}

func logCatalogSizes(registry *catalog.Registry) {
	empty := true
	for _, c := range registry.Catalogs() {
		log.Printf("Справочник %s: %d позиций", c.Source(), c.Len())
		if c.Len() > 0 {
			empty = false
		}
	}
	log.Printf("Составов: %d", registry.Recipes().Len())
	if empty {
		log.Println("Справочники пусты, загрузите их командой import_catalogs")
	}
}

// newSender собирает клиент СБИС; без учетных данных отправка отключена.
func newSender(cfg *config.Config) handlers.DocumentSender {
	if cfg.SbisClientID == "" || cfg.SbisSecret == "" || cfg.SbisServiceKey == "" {
		log.Println("Учетные данные СБИС не заданы, отправка документов отключена")
		return nil
	}

	authURL := cfg.SbisAuthURL
	if authURL == "" {
		authURL = sbis.DefaultAuthURL
	}
	serviceURL := cfg.SbisServiceURL
	if serviceURL == "" {
		serviceURL = sbis.DefaultServiceURL
	}

	auth := sbis.NewServiceAuth(sbis.Credentials{
		ClientID:   cfg.SbisClientID,
		Secret:     cfg.SbisSecret,
		ServiceKey: cfg.SbisServiceKey,
	}, authURL)

	return sbis.NewClient(serviceURL, auth, cfg.SbisRequestsPerSecond)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
