package slide

import "go.uber.org/zap"

// Logger carries the debug logger of the pass. The pass defaults to a nop
// logger; install one with WithLogger to trace slide decisions.
type Logger struct {
	*zap.SugaredLogger
	module string
}

// Module returns the module name log lines are attributed to.
func (l *Logger) Module() string {
	return l.module
}

func nopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), module: "slide"}
}
