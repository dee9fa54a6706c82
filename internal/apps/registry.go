package apps

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownApplication = errors.New("apps: unknown application")
	ErrInvalidPayload     = errors.New("apps: invalid payload")
	ErrTokenExists        = errors.New("apps: token already exists")
	ErrUnknownChannel     = errors.New("apps: unknown channel")
)

// App consumes payloads sent by its contract on the external chain
type App interface {
	Name() string
	Address() common.Address
	Handle(st state.Store, id model.MessageID, payload []byte) error
}

// Channels are the outbound channels applications may send through
type Channels map[model.ChannelID]channel.Outbound

func (c Channels) get(id model.ChannelID) (channel.Outbound, error) {
	out, ok := c[id]
	if !ok || out == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownChannel)
	}
	return out, nil
}

// Registry dispatches inbound payloads by the external address that sent
// them.
type Registry struct {
	apps   map[common.Address]App
	logger logrus.FieldLogger
}

var _ channel.Dispatcher = (*Registry)(nil)

func NewRegistry(logger logrus.FieldLogger, apps ...App) (*Registry, error) {
	seen := mapset.NewSet()
	m := make(map[common.Address]App, len(apps))
	for _, app := range apps {
		if !seen.Add(app.Address()) {
			return nil, fmt.Errorf("%s shares address %s with another application", app.Name(), app.Address().Hex())
		}
		m[app.Address()] = app
	}
	return &Registry{apps: m, logger: logger}, nil
}

func (r *Registry) Dispatch(st state.Store, id model.MessageID, source common.Address, payload []byte) error {
	app, ok := r.apps[source]
	if !ok {
		return fmt.Errorf("%s: %w", source.Hex(), ErrUnknownApplication)
	}
	if err := app.Handle(st, id, payload); err != nil {
		return fmt.Errorf("%s: %w", app.Name(), err)
	}

	r.logger.WithFields(logrus.Fields{
		"app":     app.Name(),
		"message": id.String(),
	}).Debug("Dispatch message")
	return nil
}

// App returns the application registered at address
func (r *Registry) App(address common.Address) (App, bool) {
	app, ok := r.apps[address]
	return app, ok
}
