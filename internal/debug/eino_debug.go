package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/dyike/ArenaGo/config"
	"github.com/dyike/ArenaGo/internal/logs"
)

// EinoDebugger starts the eino visual debug server when enabled. It lets
// the chat-model invocations behind viewpoint generation and debate
// turns be inspected in the browser.
type EinoDebugger struct {
	config *config.Config
	ctx    context.Context
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{
		config: cfg,
		ctx:    context.Background(),
	}
}

func (d *EinoDebugger) Initialize() error {
	if !d.config.EinoDebugEnabled {
		return nil
	}

	if err := devops.Init(d.ctx); err != nil {
		return fmt.Errorf("initialize eino debug plugin: %w", err)
	}

	logs.Logger().Info().Int("port", d.config.EinoDebugPort).
		Msg("eino debug server started")
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) DebugURL() string {
	if !d.config.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}
