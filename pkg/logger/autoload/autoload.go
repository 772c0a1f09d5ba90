// Package autoload initializes the global logger from LOG_* environment
// variables on import.
package autoload

import (
	configx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/config"
	logx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
