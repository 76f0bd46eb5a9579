package di

import (
	"time"

	"go.uber.org/dig"

	"github.com/mikey/sms-spam-classifier/internal/bundle"
	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/factory"
	"github.com/mikey/sms-spam-classifier/internal/logging"
	"github.com/mikey/sms-spam-classifier/internal/ports"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// Flags contains the command line flags shared by every command
type Flags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
}

// BuildContainer creates and configures a dependency injection container.
// Providers are lazy, so commands only construct what they invoke.
func BuildContainer(flags *Flags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *Flags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *Flags) (*config.Config, error) {
		cfg, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}

	// Register text processing
	if err := container.Provide(func(f *factory.TextProcessorFactory) *textproc.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) (*textproc.Tokenizer, error) {
		return f.CreateTokenizer()
	}); err != nil {
		return nil, err
	}

	// Register training candidates
	if err := container.Provide(func(f *factory.ClassifierFactory) ([]factory.Candidate, error) {
		return f.CreateCandidates()
	}); err != nil {
		return nil, err
	}

	// Register persisted model
	if err := container.Provide(func(f *factory.ModelFactory) (*bundle.Bundle, error) {
		return f.LoadBundle()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(b *bundle.Bundle) (core.Classifier, error) {
		return b.Classifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(b *bundle.Bundle) (core.FeatureEncoder, error) {
		return b.Encoder()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(b *bundle.Bundle) core.ModelVersion {
		return b.Version()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register prediction service
	if err := container.Provide(core.NewPredictionService); err != nil {
		return nil, err
	}

	// Register prediction server
	if err := container.Provide(func(f *factory.ServerFactory) (ports.PredictionServer, error) {
		return f.CreatePredictionServer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags lets command line flags override the logging configuration
func applyFlags(cfg *config.Config, flags *Flags) {
	if flags.Verbose {
		cfg.Set("logging.level", "debug")
	}
	if flags.JSONLog {
		cfg.Set("logging.format", "json")
	}
}

// StopCache stops the cleanup task and closes the connection of a cache repository
func StopCache(cacheRepo core.CacheRepository) {
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}
