package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jcorbett/rostergen/internal/config"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
}
