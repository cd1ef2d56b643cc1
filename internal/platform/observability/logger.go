package observability

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coffeemachine/internal/config"
)

const instrumentationScope = "coffee-machine.manual"

// LoggerOptions controls where NewLogger writes.
type LoggerOptions struct {
	Output zapcore.WriteSyncer
	Level  zapcore.Level
	// Bridge tees every entry into the global OTel logger provider.
	Bridge bool
}

// NewLogger builds the JSON console logger, optionally teed with the otelzap
// bridge. Call it after SetupLoggingSDK so the bridge picks up the real
// provider.
func NewLogger(opts LoggerOptions) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(opts.Output),
		opts.Level,
	)

	if opts.Bridge {
		otelCore := otelzap.NewCore(instrumentationScope,
			otelzap.WithLoggerProvider(global.GetLoggerProvider()),
		)
		core = zapcore.NewTee(otelCore, core)
	}

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", config.ServiceName)),
	)
}
