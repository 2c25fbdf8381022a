package commands

import (
	"context"
	"log/slog"

	"github.com/fortuna/games/internal/collect"
	"github.com/fortuna/games/internal/config"
)

type contextKey struct{}

// Value is what every subcommand receives from the root.
type Value struct {
	Config    config.Config
	Logger    *slog.Logger
	Collector *collect.Collector
}

func setValue(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, contextKey{}, value)
}

func getValue(ctx context.Context) *Value {
	return ctx.Value(contextKey{}).(*Value)
}
