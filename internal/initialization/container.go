package initialization

import (
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tripdesk/intentcore/internal/controllers"
	"github.com/tripdesk/intentcore/internal/service"
	"github.com/tripdesk/intentcore/pkg/intent/catalog"
	"github.com/tripdesk/intentcore/pkg/intent/classifier"
	"github.com/tripdesk/intentcore/pkg/intent/embedding/openai"
	"github.com/tripdesk/intentcore/pkg/intent/hierarchy"
	"github.com/tripdesk/intentcore/pkg/intent/session"
	"github.com/tripdesk/intentcore/pkg/intent/session/inmemory"
	sessionredis "github.com/tripdesk/intentcore/pkg/intent/session/redis"
)

// Dependencies is the wired object graph of the service.
type Dependencies struct {
	Config                   *Config
	Catalog                  *catalog.Catalog
	Classifier               *classifier.Classifier
	ClassificationService    *service.ClassificationService
	ClassificationController *controllers.ClassificationController
}

// BuildDependencies assembles the engine and its service surface from
// configuration. Missing or malformed catalog/hierarchy documents degrade to
// empty ones; a missing API key is the only hard failure, since the engine
// cannot embed anything without a provider.
func BuildDependencies(config *Config) (*Dependencies, error) {
	log.Info().Msg("Building service dependencies")

	if config.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	provider := openai.New(config.OpenAIAPIKey, openai.WithModel(config.EmbeddingModel))

	cat := catalog.LoadOrEmpty(config.CatalogPath, provider, catalog.WithLanguage(config.DefaultLanguage))
	hier := hierarchy.LoadOrEmpty(config.HierarchyPath)

	classifierOpts := []classifier.Option{
		classifier.WithCatalog(cat),
		classifier.WithHierarchy(hier),
		classifier.WithProvider(provider),
		classifier.WithDefaultLanguage(config.DefaultLanguage),
	}
	if config.MinConfidence > 0 {
		classifierOpts = append(classifierOpts, classifier.WithMinConfidence(config.MinConfidence))
	}

	engine, err := classifier.New(classifierOpts...)
	if err != nil {
		return nil, err
	}

	var sessions session.Store
	if config.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		sessions = sessionredis.New(client, sessionredis.WithTTL(config.SessionTTL))
		log.Info().Str("addr", config.RedisAddr).Msg("Using Redis session store")
	} else {
		sessions = inmemory.New()
		log.Info().Msg("Using in-memory session store")
	}

	classificationService := service.NewClassificationService(service.Dependencies{
		Classifier: engine,
		Catalog:    cat,
		Sessions:   sessions,
	})

	classificationController := controllers.NewClassificationController(controllers.ClassificationControllerDependencies{
		ClassificationService: classificationService,
	})

	return &Dependencies{
		Config:                   config,
		Catalog:                  cat,
		Classifier:               engine,
		ClassificationService:    classificationService,
		ClassificationController: classificationController,
	}, nil
}
