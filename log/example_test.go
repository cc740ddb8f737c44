package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tjlang/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Info("compiled", slog.String("source", "main.tj"), slog.Int("units", 3))
	logger.Debug("hidden below info")
	// Output:
	// level=INFO msg=compiled source=main.tj units=3
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelTrace))

	logger.TraceContext(context.Background(), "eval", slog.String("file", "main.tj"))
	// Output:
	// {"level":"TRACE","msg":"eval","file":"main.tj"}
}
