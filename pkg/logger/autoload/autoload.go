// Package autoload initializes the global logger from the environment
// on import:
//
//	import _ "github.com/yolearn/tutor-dialogue/pkg/logger/autoload"
package autoload

import (
	configx "github.com/yolearn/tutor-dialogue/pkg/config"
	logx "github.com/yolearn/tutor-dialogue/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
