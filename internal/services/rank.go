package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"nearest-hub-service/internal/domain"
	"nearest-hub-service/internal/platform/obs"
	"nearest-hub-service/internal/ports"
)

// Ranking constants, each a fixed business rule or documented design
// limit rather than an implementation detail.
const (
	// Beyond this distance, self-pickup (Ex Works) is flagged as
	// impractical and the caller should prompt the user to reconsider.
	// The boundary is exclusive: exactly 150 km is not flagged.
	WarningThresholdKm = 150

	// Hubs beyond this straight-line distance are never promoted into
	// the refined candidate set, even if nothing closer exists. Design
	// limit to bound refinement work per query.
	straightLineCutoffKm = 400.0

	// How many of the closest candidates get the road-distance estimate.
	refineTopK = 5

	// Default overall budget for the refine stage of one query. On
	// expiry the query degrades to straight-line estimates instead of
	// failing.
	defaultRefineBudget = 3 * time.Second

	// Applied to a straight-line distance when the road estimate is
	// unavailable; roads are never shorter than the crow flies.
	straightLineFactor = 1.3

	// At most this many hubs are returned per query.
	maxRankedHubs = 2
)

// NearestHubsRequest identifies the entity location to rank hubs against.
// EntityType participates in the duplicate-query key; EntityID, when set,
// lets a fresh geocode be persisted against the entity row.
type NearestHubsRequest struct {
	City       string
	Country    string
	EntityType string
	EntityID   string
	Limit      int
}

// Ranker resolves an entity location and returns the closest hubs with
// estimated distances and a long-distance warning flag. Safe for
// concurrent use; all queries share the resolver's caches and pacer.
type Ranker struct {
	resolver *LocationResolver
	hubs     ports.HubRepository

	// refineBudget caps the refine stage of one query; on expiry the
	// query degrades to straight-line estimates.
	refineBudget time.Duration

	mu         sync.Mutex // guards the last-query memory
	lastKey    string
	lastResult []domain.RankedHub
}

func NewRanker(resolver *LocationResolver, hubs ports.HubRepository) *Ranker {
	return &Ranker{
		resolver:     resolver,
		hubs:         hubs,
		refineBudget: defaultRefineBudget,
	}
}

// RankNearest runs the resolve -> load -> score -> refine -> rank
// pipeline for one query. Repeating the identical (city, country,
// entity-type) query returns the remembered result without re-resolving,
// so back-to-back duplicate calls never issue redundant geocodes.
func (r *Ranker) RankNearest(ctx context.Context, req NearestHubsRequest) (_ []domain.RankedHub, err error) {
	defer obs.Time(ctx, "ranker.RankNearest")(&err)

	loc := domain.Location{City: req.City, Country: req.Country}
	if loc.IsZero() {
		return nil, fmt.Errorf("%w: city and country must be non-empty", ErrLocationUnresolvable)
	}

	queryKey := loc.Key() + "|" + req.EntityType

	r.mu.Lock()
	if r.lastKey == queryKey && r.lastResult != nil {
		result := slices.Clone(r.lastResult)
		r.mu.Unlock()
		return result, nil
	}
	r.mu.Unlock()

	hubs, err := r.hubs.ListActiveHubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("rank nearest: load hubs: %w", err)
	}

	origin, err := r.resolver.Resolve(ctx, loc, hubs, req.EntityType, req.EntityID)
	if err != nil {
		return nil, fmt.Errorf("rank nearest: %w", err)
	}

	ranked := r.scoreAndRank(ctx, origin, hubs)

	limit := req.Limit
	if limit < 1 || limit > maxRankedHubs {
		limit = maxRankedHubs
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	r.mu.Lock()
	r.lastKey = queryKey
	r.lastResult = slices.Clone(ranked)
	r.mu.Unlock()

	return ranked, nil
}

type scoredHub struct {
	hub      domain.Hub
	straight float64
}

// scoreAndRank computes straight-line distances to every rankable hub,
// refines the closest candidates with the road-distance heuristic under
// a fixed budget, and returns all candidates ranked ascending.
func (r *Ranker) scoreAndRank(ctx context.Context, origin domain.Coordinate, hubs []domain.Hub) []domain.RankedHub {
	scored := make([]scoredHub, 0, len(hubs))
	for _, h := range hubs {
		if !h.Rankable() {
			continue
		}
		scored = append(scored, scoredHub{hub: h, straight: Haversine(origin, *h.Coord)})
	}
	if len(scored) == 0 {
		return []domain.RankedHub{}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].straight != scored[j].straight {
			return scored[i].straight < scored[j].straight
		}
		return scored[i].hub.ID < scored[j].hub.ID
	})

	// Candidates for road-distance refinement: the closest K within the
	// straight-line cutoff. When nothing is within the cutoff the closest
	// hubs are still returned, on the straight-line estimate path.
	candidates := make([]scoredHub, 0, refineTopK)
	for _, s := range scored {
		if s.straight > straightLineCutoffKm {
			break
		}
		candidates = append(candidates, s)
		if len(candidates) == refineTopK {
			break
		}
	}

	if len(candidates) == 0 {
		candidates = scored
		if len(candidates) > maxRankedHubs {
			candidates = candidates[:maxRankedHubs]
		}
		return finishStraightLine(candidates)
	}

	refineCtx, cancel := context.WithTimeout(ctx, r.refineBudget)
	defer cancel()

	destinations := make([]domain.Coordinate, len(candidates))
	for i, c := range candidates {
		destinations[i] = *c.hub.Coord
	}

	estimates, err := EstimateBatch(refineCtx, origin, destinations)
	if err != nil {
		// Budget exceeded or cancelled: degrade silently to the
		// straight-line estimate rather than failing the query.
		return finishStraightLine(candidates)
	}

	ranked := make([]domain.RankedHub, 0, len(candidates))
	for i, c := range candidates {
		km := estimates[i].DistanceKm
		ranked = append(ranked, domain.RankedHub{
			HubID:          c.hub.ID,
			Name:           c.hub.Name,
			Code:           c.hub.Code,
			DistanceKm:     km,
			Warning:        km > WarningThresholdKm,
			IsRoadDistance: true,
		})
	}

	sortRanked(ranked)
	return ranked
}

func finishStraightLine(candidates []scoredHub) []domain.RankedHub {
	ranked := make([]domain.RankedHub, 0, len(candidates))
	for _, c := range candidates {
		km := int(math.Round(c.straight * straightLineFactor))
		ranked = append(ranked, domain.RankedHub{
			HubID:          c.hub.ID,
			Name:           c.hub.Name,
			Code:           c.hub.Code,
			DistanceKm:     km,
			Warning:        km > WarningThresholdKm,
			IsRoadDistance: false,
		})
	}
	sortRanked(ranked)
	return ranked
}

func sortRanked(ranked []domain.RankedHub) {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].HubID < ranked[j].HubID
	})
}
