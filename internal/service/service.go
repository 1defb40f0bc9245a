package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// PageSize is the number of rows returned by paginated listings.
const PageSize = 20

// Clock returns the current instant.
type Clock func() time.Time

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type uniformSource struct{}

func (uniformSource) IntN(n int) int {
	return rand.IntN(n)
}

// NewRandomSource returns a uniform source backed by math/rand/v2.
func NewRandomSource() RandomSource {
	return uniformSource{}
}

func requireRole(actor domain.Actor, allowed ...domain.Role) error {
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return apperrors.NewNotAllowed("action not allowed for role " + string(actor.Role))
}

// lookupError turns repository sentinels into domain errors for resource.
func lookupError(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewConflict(resource+" was modified concurrently", map[string]any{"id": id})
	default:
		return err
	}
}

// pageFor converts a 1-based page number into a repository page.
func pageFor(page int) repository.Page {
	if page < 1 {
		page = 1
	}
	return repository.Page{Limit: PageSize, Offset: (page - 1) * PageSize}
}

type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// publish is fire and forget; the write it reports has already committed.
func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = domain.NewID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event publication failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func actorOf(actor domain.Actor) events.Actor {
	return events.Actor{Role: actor.Role, ID: actor.ID}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func orNow(clock Clock) Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}
