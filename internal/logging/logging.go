// Package logging builds the gateway's zap logger.
package logging

import "go.uber.org/zap"

// New creates a named logger tuned for the given environment: structured
// JSON in production, console output everywhere else.
func New(appEnv, name string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if appEnv == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
