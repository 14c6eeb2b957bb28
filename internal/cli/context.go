// Package cli provides the cobra commands for the keurtrack application.
package cli

import (
	"context"
	"os"
	"os/user"

	"github.com/example/keurtrack/internal/wire"
)

// NewContext creates the context CLI commands run under.
func NewContext() context.Context {
	return context.Background()
}

// actorName resolves the actor recorded in the activity log: an explicit
// --actor flag wins, then the configured default, then the OS user.
func actorName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg := wire.Config(); cfg != nil && cfg.Actor != "" {
		return cfg.Actor
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
