package deps

import (
	"github.com/blendle/zapdriver"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mavericklabs/sparks-files/env"
)

// NewZapLogger builds the service logger: stackdriver-formatted JSON
// when LOG_FORMAT=stackdriver, colored console output otherwise.
func NewZapLogger() (*zap.SugaredLogger, error) {
	config := zapdriver.NewProductionConfig()
	config.InitialFields = map[string]interface{}{"service": "sparks-files"}

	if env.GetOptional(env.LogFormat, "console") != "stackdriver" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build the logger")
	}

	return logger.Sugar(), nil
}
