package loggers

import (
	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/ethbridge/internal/repo"
	"github.com/sirupsen/logrus"
)

const (
	ApiServer   = "api_server"
	App         = "app"
	Apps        = "apps"
	Channel     = "channel"
	Ledger      = "ledger"
	LightClient = "light_client"
	Runtime     = "runtime"
)

var w *loggerWrapper

type loggerWrapper struct {
	loggers map[string]*logrus.Entry
}

func InitializeLogger(config *repo.Config) {
	m := make(map[string]*logrus.Entry)
	m[ApiServer] = log.NewWithModule(ApiServer)
	m[App] = log.NewWithModule(App)
	m[Apps] = log.NewWithModule(Apps)
	m[Channel] = log.NewWithModule(Channel)
	m[Ledger] = log.NewWithModule(Ledger)
	m[LightClient] = log.NewWithModule(LightClient)
	m[Runtime] = log.NewWithModule(Runtime)

	w = &loggerWrapper{loggers: m}
	SetLevels(config)
}

// SetLevels applies the configured levels, also used on config reload
func SetLevels(config *repo.Config) {
	if w == nil {
		return
	}
	w.loggers[ApiServer].Logger.SetLevel(log.ParseLevel(config.Log.Module.ApiServer))
	w.loggers[App].Logger.SetLevel(log.ParseLevel(config.Log.Level))
	w.loggers[Apps].Logger.SetLevel(log.ParseLevel(config.Log.Module.Apps))
	w.loggers[Channel].Logger.SetLevel(log.ParseLevel(config.Log.Module.Channel))
	w.loggers[Ledger].Logger.SetLevel(log.ParseLevel(config.Log.Module.Ledger))
	w.loggers[LightClient].Logger.SetLevel(log.ParseLevel(config.Log.Module.LightClient))
	w.loggers[Runtime].Logger.SetLevel(log.ParseLevel(config.Log.Module.Runtime))
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
