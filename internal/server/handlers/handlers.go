// Package handlers provides HTTP request handlers for the midivault API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/midivault/midivault"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	client    midivault.Client
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(client midivault.Client, logger *zerolog.Logger, startTime time.Time) *Handlers {
	return &Handlers{
		client:    client,
		logger:    logger,
		startTime: startTime,
	}
}
