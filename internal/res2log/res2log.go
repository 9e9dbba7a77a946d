// Package res2log builds the loggers used by the res2csv and csv2res
// command line tools.
//
// Log output is split by level between stdout and stderr, so that warnings
// do not pollute stderr. When the main CSV output itself goes to stdout,
// all log output is redirected to stderr instead.
package res2log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MagicStdout is the output filename that directs main output to stdout.
const MagicStdout = "-"

// Options control log verbosity and stream routing.
type Options struct {
	// Output is the main output filename of the calling command. If it
	// equals MagicStdout, all logs go to stderr.
	Output  string
	Verbose bool
	Debug   bool
}

// New returns a sugared logger configured according to opts.
func New(opts Options) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.InfoLevel
	}
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	enccfg := zap.NewDevelopmentEncoderConfig()
	enccfg.TimeKey = "" // timestamps carry no information for a batch converter
	encoder := zapcore.NewConsoleEncoder(enccfg)

	var core zapcore.Core
	if opts.Output == MagicStdout {
		core = zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	} else {
		stdout := zapcore.Lock(os.Stdout)
		stderr := zapcore.Lock(os.Stderr)
		core = zapcore.NewTee(
			zapcore.NewCore(encoder, stdout, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return l >= level && l < zapcore.ErrorLevel
			})),
			zapcore.NewCore(encoder, stderr, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return l >= level && l >= zapcore.ErrorLevel
			})),
		)
	}
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything, for library consumers
// and tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
