//go:build !debug

package slide

import (
	"log"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// NewLogger returns a new logger with default options.
func NewLogger() *Logger {
	color.NoColor = true
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Cannot create new logger:", err)
	}
	return &Logger{SugaredLogger: l.Sugar(), module: "slide"}
}

// NewFileLogger returns a new logger that also writes the log output to
// files.
func NewFileLogger(files ...string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = append(cfg.OutputPaths, files...)
	l, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot create new logger:", err)
	}
	return &Logger{SugaredLogger: l.Sugar(), module: "slide"}
}
