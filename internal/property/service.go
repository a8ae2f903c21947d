package property

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/pkg/cache"
	"github.com/nekogravitycat/estify-backend/internal/pkg/validate"
)

const (
	cachePrefix = "properties:public:"
	// generationKey lives outside cachePrefix so invalidation keeps it.
	generationKey = "properties:generation"
)

type Service interface {
	SubmitAdd(ctx context.Context, fields Fields, agentID string) (*Property, error)
	SubmitUpdate(ctx context.Context, originalID string, changes Changes, agentID string) (*Property, error)
	SubmitDelete(ctx context.Context, originalID string, agentID string) (*Property, error)

	Approve(ctx context.Context, requestID string) (*Resolution, error)
	Reject(ctx context.Context, requestID string) (*Resolution, error)

	ListApprovedPublic(ctx context.Context, filter Filter) ([]*Property, int, error)
	GetPublic(ctx context.Context, id string) (*Property, error)
	ListPending(ctx context.Context, filter Filter) ([]*PendingItem, int, error)
	ListForAgent(ctx context.Context, agentID string, filter Filter) ([]*Property, int, error)
	Report(ctx context.Context, filter Filter) ([]*Property, int, error)
}

// ImageRemover deletes uploaded images no record refers to any more.
type ImageRemover interface {
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	images   ImageRemover
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService builds the workflow service. images may be nil, in which case
// image files outlive the records that referenced them.
func NewService(repo Repository, images ImageRemover, c cache.Cache, cacheTTL time.Duration) Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &service{
		repo:     repo,
		images:   images,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *service) SubmitAdd(ctx context.Context, fields Fields, agentID string) (*Property, error) {
	fields.normalize()
	if err := validate.Struct(fields); err != nil {
		return nil, err
	}

	p := &Property{
		Fields:        fields,
		Lifecycle:     PendingAdd{},
		PostedByAgent: agentID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("property_id", p.ID).Str("agent_id", agentID).Msg("property add request submitted")
	return p, nil
}

func (s *service) SubmitUpdate(ctx context.Context, originalID string, changes Changes, agentID string) (*Property, error) {
	if changes.empty() {
		return nil, ErrNoChanges
	}

	original, err := s.repo.GetByID(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if !original.IsLive() {
		return nil, ErrNotFound
	}

	fields := original.Fields
	fields.Image = nil
	changes.applyTo(&fields)
	fields.normalize()
	if err := validate.Struct(fields); err != nil {
		return nil, err
	}

	shadow := &Property{
		Fields:        fields,
		Lifecycle:     PendingUpdate{OriginalID: original.ID},
		PostedByAgent: agentID,
	}
	if err := s.repo.Create(ctx, shadow); err != nil {
		return nil, err
	}

	log.Info().
		Str("property_id", shadow.ID).
		Str("original_id", original.ID).
		Str("agent_id", agentID).
		Msg("property update request submitted")
	return shadow, nil
}

func (s *service) SubmitDelete(ctx context.Context, originalID string, agentID string) (*Property, error) {
	var flagged *Property
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		p, err := repo.GetByIDForUpdate(ctx, originalID)
		if err != nil {
			return err
		}
		if !p.IsLive() {
			return ErrNotFound
		}

		p.Lifecycle = PendingDelete{}
		p.PostedByAgent = agentID
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		flagged = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("property_id", originalID).Str("agent_id", agentID).Msg("property delete request submitted")
	return flagged, nil
}

func (s *service) Approve(ctx context.Context, requestID string) (*Resolution, error) {
	var (
		res      *Resolution
		orphaned *string
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		orphaned = nil
		req, err := lockRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}

		switch lc := req.Lifecycle.(type) {
		case PendingDelete:
			if err := repo.Delete(ctx, req.ID); err != nil {
				return err
			}
			orphaned = req.Image
			res = &Resolution{RequestID: req.ID, Action: ActionRemoved, Property: req}

		case PendingUpdate:
			original, err := repo.GetByIDForUpdate(ctx, lc.OriginalID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return ErrOriginalNotFound
				}
				return err
			}
			if replacesImage(original.Image, req.Image) {
				orphaned = original.Image
			}
			original.mergeFrom(req.Fields)
			if err := repo.Update(ctx, original); err != nil {
				return err
			}
			if err := repo.Delete(ctx, req.ID); err != nil {
				return err
			}
			res = &Resolution{RequestID: req.ID, Action: ActionMerged, Property: original}

		case PendingAdd:
			req.Lifecycle = Live{}
			if err := repo.Update(ctx, req); err != nil {
				return err
			}
			res = &Resolution{RequestID: req.ID, Action: ActionPublished, Property: req}

		default:
			return fmt.Errorf("approve: unhandled lifecycle %T", lc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.removeImage(ctx, orphaned)
	log.Info().Str("request_id", requestID).Str("action", string(res.Action)).Msg("property request approved")
	return res, nil
}

func (s *service) Reject(ctx context.Context, requestID string) (*Resolution, error) {
	var (
		res      *Resolution
		orphaned *string
	)
	err := s.repo.WithTx(ctx, func(repo Repository) error {
		orphaned = nil
		req, err := lockRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}

		switch lc := req.Lifecycle.(type) {
		case PendingDelete:
			req.Lifecycle = Live{}
			if err := repo.Update(ctx, req); err != nil {
				return err
			}
			res = &Resolution{RequestID: req.ID, Action: ActionRestored, Property: req}

		case PendingAdd, PendingUpdate:
			if err := repo.Delete(ctx, req.ID); err != nil {
				return err
			}
			// An update shadow only carries an image that was uploaded for it.
			orphaned = req.Image
			res = &Resolution{RequestID: req.ID, Action: ActionDiscarded, Property: req}

		default:
			return fmt.Errorf("reject: unhandled lifecycle %T", lc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.removeImage(ctx, orphaned)
	log.Info().Str("request_id", requestID).Str("action", string(res.Action)).Msg("property request rejected")
	return res, nil
}

func replacesImage(current, next *string) bool {
	return current != nil && next != nil && *current != *next
}

// removeImage runs after commit and is best effort: the record change
// stands even when the file cannot be removed.
func (s *service) removeImage(ctx context.Context, id *string) {
	if s.images == nil || id == nil {
		return
	}
	if err := s.images.Delete(ctx, *id); err != nil {
		log.Warn().Err(err).Str("file_id", *id).Msg("failed to remove unreferenced image")
	}
}

// lockRequest loads a pending record under a row lock. Live and missing
// records both report ErrRequestNotFound, so a repeated Approve fails cleanly.
func lockRequest(ctx context.Context, repo Repository, id string) (*Property, error) {
	p, err := repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if p.IsLive() {
		return nil, ErrRequestNotFound
	}
	return p, nil
}

type cachedPage struct {
	Items []*Property `json:"items"`
	Total int         `json:"total"`
}

func (s *service) ListApprovedPublic(ctx context.Context, filter Filter) ([]*Property, int, error) {
	filter.Status = StatusApproved
	filter.RequestType = ""
	filter.AgentID = ""

	key, cached := s.cacheKey(ctx, fmt.Sprintf("list:%s:%s:%d:%d", filter.Type, filter.District, filter.Page, filter.PageSize))
	if cached {
		var page cachedPage
		if err := s.cache.Get(ctx, key, &page); err == nil {
			return page.Items, page.Total, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("property cache read failed")
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if cached {
		if err := s.cache.Set(ctx, key, cachedPage{Items: items, Total: total}, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("property cache write failed")
		}
	}
	return items, total, nil
}

func (s *service) GetPublic(ctx context.Context, id string) (*Property, error) {
	key, cached := s.cacheKey(ctx, id)
	if cached {
		var hit Property
		if err := s.cache.Get(ctx, key, &hit); err == nil {
			return &hit, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("property cache read failed")
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsLive() {
		return nil, ErrNotFound
	}

	if cached {
		if err := s.cache.Set(ctx, key, p, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("property cache write failed")
		}
	}
	return p, nil
}

func (s *service) ListPending(ctx context.Context, filter Filter) ([]*PendingItem, int, error) {
	filter.Status = StatusPending

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*PendingItem, len(requests))
	for i, req := range requests {
		items[i] = &PendingItem{Request: req}

		upd, ok := req.Lifecycle.(PendingUpdate)
		if !ok {
			continue
		}
		original, err := s.repo.GetByID(ctx, upd.OriginalID)
		switch {
		case err == nil:
			items[i].Original = original
		case errors.Is(err, ErrNotFound):
			// Orphaned shadow; only Reject can resolve it.
		default:
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (s *service) ListForAgent(ctx context.Context, agentID string, filter Filter) ([]*Property, int, error) {
	filter.AgentID = agentID
	return s.repo.List(ctx, filter)
}

func (s *service) Report(ctx context.Context, filter Filter) ([]*Property, int, error) {
	return s.repo.List(ctx, filter)
}

// cacheKey scopes name to the current cache generation. A read that loses
// a race with invalidate writes under the previous generation, which no
// later read asks for. The boolean is false when the generation is unknown
// and the cache must be bypassed.
func (s *service) cacheKey(ctx context.Context, name string) (string, bool) {
	gen := "0"
	if err := s.cache.Get(ctx, generationKey, &gen); err != nil && !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Msg("property cache generation read failed")
		return "", false
	}
	return cachePrefix + gen + ":" + name, true
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Set(ctx, generationKey, uuid.NewString(), 0); err != nil {
		log.Warn().Err(err).Msg("property cache generation bump failed")
	}
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		log.Warn().Err(err).Msg("property cache invalidation failed")
	}
}
