package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/alias"
	"github.com/serroba/shortlink/internal/analytics"
	"go.uber.org/zap"
)

// AliasHandler handles alias creation, listing, deletion and redirects.
type AliasHandler struct {
	aliases *alias.Service
	publish analytics.Publishers
	logger  *zap.Logger
	now     func() time.Time
}

// NewAliasHandler creates a new alias handler.
func NewAliasHandler(aliases *alias.Service, publish analytics.Publishers, logger *zap.Logger) *AliasHandler {
	return &AliasHandler{
		aliases: aliases,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *AliasHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	owner := UserIDFromContext(ctx)

	record, err := h.aliases.Create(ctx, alias.CreateRequest{
		OriginalURL:     req.Body.OriginalURL,
		Owner:           owner,
		DurationMinutes: int(req.Body.Duration),
		Prefix:          req.Body.Prefix,
	})
	if err != nil {
		if errors.Is(err, alias.ErrInvalidInput) {
			return nil, huma.Error400BadRequest(err.Error())
		}

		h.logger.Error("failed to create alias", zap.String("owner", owner), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.AliasCreatedEvent{
		ShortID:     string(record.ShortID),
		OriginalURL: record.OriginalURL,
		Owner:       record.Owner,
		Prefix:      req.Body.Prefix,
		CreatedAt:   record.CreatedAt,
		ExpireAt:    record.ExpireAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publish.Created(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("shortId", event.ShortID),
			zap.Error(err),
		)
	}

	resp := &ShortenResponse{}
	resp.Body.ShortID = string(record.ShortID)
	resp.Body.OriginalURL = record.OriginalURL
	resp.Body.ShortURL = h.aliases.ShortURL(record.ShortID)
	resp.Body.ExpireAt = record.ExpireAt

	return resp, nil
}

func (h *AliasHandler) ListMine(ctx context.Context, _ *struct{}) (*ListAliasesResponse, error) {
	owner := UserIDFromContext(ctx)
	if owner == "" {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	records, err := h.aliases.ListByOwner(ctx, owner)
	if err != nil {
		h.logger.Error("failed to list aliases", zap.String("owner", owner), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list urls")
	}

	resp := &ListAliasesResponse{Body: make([]AliasBody, 0, len(records))}

	for _, record := range records {
		resp.Body = append(resp.Body, AliasBody{
			ShortID:     string(record.ShortID),
			OriginalURL: record.OriginalURL,
			ShortURL:    h.aliases.ShortURL(record.ShortID),
			CreatedAt:   record.CreatedAt,
			ExpireAt:    record.ExpireAt,
			Expired:     h.aliases.Expired(record),
		})
	}

	return resp, nil
}

func (h *AliasHandler) Delete(ctx context.Context, req *ShortIDRequest) (*MessageResponse, error) {
	owner := UserIDFromContext(ctx)
	if owner == "" {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	err := h.aliases.Delete(ctx, alias.ShortID(req.ShortID), owner)
	if err != nil {
		if errors.Is(err, alias.ErrNotFound) {
			return nil, huma.Error404NotFound(alias.ErrNotFound.Error())
		}

		h.logger.Error("failed to delete alias", zap.String("shortId", req.ShortID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete url")
	}

	event := &analytics.AliasDeletedEvent{
		ShortID:   req.ShortID,
		Owner:     owner,
		DeletedAt: h.now(),
	}

	if err := h.publish.Deleted(ctx, event); err != nil {
		h.logger.Error("failed to publish delete event",
			zap.String("shortId", event.ShortID),
			zap.Error(err),
		)
	}

	resp := &MessageResponse{}
	resp.Body.Message = "url deleted"

	return resp, nil
}

func (h *AliasHandler) Redirect(ctx context.Context, req *ShortIDRequest) (*RedirectResponse, error) {
	record, err := h.aliases.Resolve(ctx, alias.ShortID(req.ShortID))

	switch {
	case err == nil:
	case errors.Is(err, alias.ErrNotFound):
		return nil, huma.Error404NotFound(alias.ErrNotFound.Error())
	case errors.Is(err, alias.ErrExpired):
		h.publishAccess(ctx, req.ShortID, true)

		return nil, huma.Error410Gone(alias.ErrExpired.Error())
	default:
		h.logger.Error("failed to resolve alias", zap.String("shortId", req.ShortID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	h.publishAccess(ctx, req.ShortID, false)

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: record.OriginalURL,
	}, nil
}

func (h *AliasHandler) publishAccess(ctx context.Context, shortID string, expired bool) {
	meta := RequestMetaFromContext(ctx)
	event := &analytics.AliasAccessedEvent{
		ShortID:    shortID,
		Expired:    expired,
		AccessedAt: h.now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publish.Accessed(ctx, event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("shortId", event.ShortID),
			zap.Error(err),
		)
	}
}
