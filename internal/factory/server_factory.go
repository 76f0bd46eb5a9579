package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/adapters/httpapi"
	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/ports"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// ServerFactory creates prediction servers based on configuration
type ServerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.PredictionService
	textProcessor *textproc.TextProcessor
}

// NewServerFactory creates a new server factory
func NewServerFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.PredictionService,
	textProcessor *textproc.TextProcessor,
) *ServerFactory {
	return &ServerFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		textProcessor: textProcessor,
	}
}

// CreatePredictionServer creates the prediction server
func (f *ServerFactory) CreatePredictionServer() (ports.PredictionServer, error) {
	serverCfg := f.cfg.GetServer()
	if serverCfg.ListenAddress == "" {
		return nil, fmt.Errorf("server.listen_address must be set")
	}

	return httpapi.NewServer(
		f.service,
		f.textProcessor,
		f.logger.Named("http"),
		serverCfg,
		f.cfg.GetText().MaxMessageSize,
	), nil
}
