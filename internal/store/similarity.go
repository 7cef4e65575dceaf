package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/config"
	"github.com/spec-kit/overseer/internal/domain"
)

// Key prefixes for organization, mirroring the resolution memory layout:
// one hash per resolved ticket, plus fingerprint and category index sets.
const (
	ticketKeyPrefix      = "resolution:"
	fingerprintKeyPrefix = "fp:"
	categoryKeyPrefix    = "category:"
)

// Match scores: exact fingerprint hits outrank same-category hits.
const (
	fingerprintMatchScore = 1.0
	categoryMatchScore    = 0.5
)

// SimilarityStore keeps resolved-ticket memory in Redis. Reads are safe for
// concurrent use; interleaved writes are keyed by fingerprint so last write
// wins without coordination.
type SimilarityStore struct {
	client *redis.Client
	ttl    time.Duration
	limit  int
	logger *zap.Logger
}

// NewSimilarityStore wraps a Redis client with resolution-memory semantics.
func NewSimilarityStore(client *redis.Client, cfg config.SimilarityConfig, logger *zap.Logger) *SimilarityStore {
	limit := cfg.FetchLimit
	if limit <= 0 {
		limit = 5
	}
	return &SimilarityStore{
		client: client,
		ttl:    cfg.ResolutionTTL(),
		limit:  limit,
		logger: logger,
	}
}

// Record stores a resolution under its fingerprint with category indexing
// and expiration. All writes go through one pipeline.
func (s *SimilarityStore) Record(ctx context.Context, rec domain.ResolutionRecord) error {
	ticketKey := ticketKeyPrefix + rec.TicketID
	fingerprintKey := fingerprintKeyPrefix + rec.Fingerprint
	categoryKey := categoryKeyPrefix + strings.ToLower(string(rec.Category))

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, ticketKey, map[string]any{
		"id":          rec.TicketID,
		"fingerprint": rec.Fingerprint,
		"category":    strings.ToLower(string(rec.Category)),
		"solution":    rec.Solution,
		"success":     boolField(rec.Success),
		"resolved_at": time.Now().UTC().Format(time.RFC3339),
	})
	pipe.Expire(ctx, ticketKey, s.ttl)
	pipe.SAdd(ctx, fingerprintKey, rec.TicketID)
	pipe.Expire(ctx, fingerprintKey, s.ttl)
	pipe.SAdd(ctx, categoryKey, rec.TicketID)
	pipe.Expire(ctx, categoryKey, s.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// Lookup returns prior resolutions matching the fingerprint, strongest
// matches first. Same-category resolutions backfill when exact fingerprint
// matches are scarce. An empty result is not an error.
func (s *SimilarityStore) Lookup(ctx context.Context, fingerprint string) ([]domain.SimilarResolution, error) {
	ids, err := s.client.SMembers(ctx, fingerprintKeyPrefix+fingerprint).Result()
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(ids))
	for _, id := range ids {
		scores[id] = fingerprintMatchScore
	}

	if len(ids) < s.limit {
		category := fingerprint
		if i := strings.IndexByte(fingerprint, ':'); i >= 0 {
			category = fingerprint[:i]
		}
		categoryIDs, err := s.client.SMembers(ctx, categoryKeyPrefix+category).Result()
		if err != nil {
			return nil, err
		}
		for _, id := range categoryIDs {
			if _, exact := scores[id]; !exact {
				scores[id] = categoryMatchScore
				ids = append(ids, id)
			}
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, ticketKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	results := make([]domain.SimilarResolution, 0, len(ids))
	for i, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			// expired between index read and hash read
			continue
		}
		resolvedAt, _ := time.Parse(time.RFC3339, data["resolved_at"])
		results = append(results, domain.SimilarResolution{
			TicketID:   data["id"],
			Category:   data["category"],
			Solution:   data["solution"],
			Success:    data["success"] == "1",
			Score:      scores[ids[i]],
			ResolvedAt: resolvedAt,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].TicketID < results[j].TicketID
	})
	if len(results) > s.limit {
		results = results[:s.limit]
	}
	return results, nil
}

func boolField(v bool) string {
	if v {
		return strconv.Itoa(1)
	}
	return strconv.Itoa(0)
}
