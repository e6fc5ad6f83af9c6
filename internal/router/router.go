// Package router drives the per-request interaction decision tree:
// authenticate, dispatch on interaction type, authorize the action against
// the originating message, mutate, and re-render the instance list.
package router

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"svrmgr/internal/auth"
	"svrmgr/internal/common/httpapi"
	"svrmgr/internal/common/logger"
	"svrmgr/internal/common/metrics"
	"svrmgr/internal/controller"
	"svrmgr/internal/directory"
	"svrmgr/internal/discord"
	"svrmgr/internal/render"
)

type Router struct {
	verifier   *auth.Verifier
	directory  *directory.Directory
	controller *controller.Controller
	log        logger.Logger
}

func New(verifier *auth.Verifier, dir *directory.Directory, ctrl *controller.Controller, log logger.Logger) *Router {
	return &Router{
		verifier:   verifier,
		directory:  dir,
		controller: ctrl,
		log:        log,
	}
}

// Handle processes one interaction request end to end. Terminal outputs are
// a pong, a typed error, or an updated-message response; nothing else.
func (r *Router) Handle(ctx context.Context, req *httpapi.Request) (*httpapi.Response, error) {
	start := time.Now()
	defer func() {
		metrics.HandleDuration.Observe(time.Since(start).Seconds())
	}()

	if err := r.verifier.Verify(req); err != nil {
		return nil, err
	}

	var interaction discord.Interaction
	if req.Body == nil {
		return nil, httpapi.NewError(400, "Bad request body: not an object")
	}
	if err := req.JSONBody(&interaction); err != nil {
		return nil, httpapi.NewError(400, "Bad request body: not an object")
	}

	if interaction.Type == nil {
		return nil, httpapi.NewError(400, "Bad request body: missing type")
	}

	switch *interaction.Type {
	case discord.InteractionTypePing:
		r.log.Info("acknowledging ping interaction", nil)
		metrics.InteractionsHandled.WithLabelValues("ping").Inc()
		return httpapi.NewJSONResponse(200, &discord.InteractionResponse{Type: discord.ResponseTypePong})
	case discord.InteractionTypeMessageComponent:
		// fall through to component handling
	default:
		return nil, httpapi.NewError(400, "Unsupported interaction type")
	}

	if interaction.Message == nil || interaction.Message.ID == "" {
		return nil, httpapi.NewError(400, "Bad request body: missing message ID")
	}
	messageID := interaction.Message.ID

	if interaction.Data == nil || interaction.Data.CustomID == "" {
		return nil, httpapi.NewError(400, "Bad request body: missing component custom ID")
	}
	customID := interaction.Data.CustomID

	r.log.Info("handling component interaction", map[string]interface{}{
		"messageId": messageID,
		"customId":  customID,
	})

	action, target, hasTarget := strings.Cut(customID, ":")
	switch {
	case action == "start" || action == "stop":
		if !hasTarget || target == "" {
			return nil, httpapi.NewError(400, "Unknown component custom ID")
		}
		if err := r.authorize(ctx, target, messageID); err != nil {
			return nil, err
		}
		var err error
		if action == "start" {
			err = r.controller.Start(ctx, target)
		} else {
			err = r.controller.Stop(ctx, target)
		}
		if err != nil {
			return nil, err
		}
	case action == "refresh":
		// plain "refresh" or the display-only "refresh:<id>" form; no mutation
	default:
		return nil, httpapi.NewError(400, "Unknown component custom ID")
	}

	instances, err := r.ownedInstances(ctx, messageID)
	if err != nil {
		return nil, err
	}

	metrics.InteractionsHandled.WithLabelValues("component").Inc()
	return httpapi.NewJSONResponse(200, render.Update(instances))
}

// authorize enforces the message/instance binding: the ownership tag on the
// instance must equal, exactly, the ID of the message the button lives on.
func (r *Router) authorize(ctx context.Context, instanceID, messageID string) error {
	owner, err := r.directory.ResolveOwnerMessage(ctx, instanceID)
	if err != nil {
		if errors.Is(err, directory.ErrNotManaged) {
			return httpapi.NewError(403, "Not allowed: instance doesn't exist or isn't managed by svrmgr")
		}
		return err
	}

	if owner != messageID {
		return httpapi.NewError(403, "Not allowed: instance isn't managed by this message")
	}
	return nil
}

// ownedInstances lists managed instances belonging to the message, sorted by
// display name (ID as fallback and tiebreaker), with live states filled in.
func (r *Router) ownedInstances(ctx context.Context, messageID string) ([]*directory.Instance, error) {
	all, err := r.directory.ListManaged(ctx)
	if err != nil {
		return nil, err
	}

	tagKey := r.directory.OwnershipTagKey()
	owned := make([]*directory.Instance, 0, len(all))
	for _, instance := range all {
		if instance.Tags[tagKey] == messageID {
			owned = append(owned, instance)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		ki, kj := owned[i].DisplayName(), owned[j].DisplayName()
		if ki != kj {
			return ki < kj
		}
		return owned[i].ID < owned[j].ID
	})

	if err := r.directory.RefreshStates(ctx, owned); err != nil {
		return nil, err
	}
	return owned, nil
}
