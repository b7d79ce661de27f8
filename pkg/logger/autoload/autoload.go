// Package autoload initializes the global logger from the environment when
// blank-imported.
package autoload

import (
	configx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/config"
	logx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
