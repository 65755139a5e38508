// Package log builds per-source prefix loggers on top of a logs.Log
package log

import (
	"path/filepath"

	"github.com/cyclopcam/logs"
)

// Discard is a log that drops everything written to it
var Discard logs.Log = discard{}

type discard struct{}

func (discard) Close()                                    {}
func (discard) Debugf(format string, a ...interface{})    {}
func (discard) Infof(format string, a ...interface{})     {}
func (discard) Warnf(format string, a ...interface{})     {}
func (discard) Errorf(format string, a ...interface{})    {}
func (discard) Criticalf(format string, a ...interface{}) {}

// Create a PrefixLogger of the form "<component> (<file name>): ".
// A nil log discards everything, so components can be constructed without a logger.
func NewFileLogger(log logs.Log, component, path string) *logs.PrefixLogger {
	if log == nil {
		log = Discard
	}
	return logs.NewPrefixLogger(log, component+" ("+filepath.Base(path)+"):")
}
