package gateway

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/memcommerce-mcp/internal/backend"
	"github.com/xenking/memcommerce-mcp/internal/catalog"
)

// Operation names used in errors, logs and spans.
const (
	OpFetchAll   = "fetch_all"
	OpCreateMany = "create_many"
	OpCreateEach = "create_each"
)

// Doer performs one request against a backend collection endpoint.
// *backend.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, segment string, body backend.Body) (jx.Raw, error)
}

// Resource exposes the batch operations of one entity kind. W is the write
// record sent on create, R the read record returned by the backend.
type Resource[W catalog.Encoder, R any, P catalog.Decoder[R]] struct {
	entity  string
	segment string
	client  Doer
	limit   int
	tel     *telemetry
}

func newResource[W catalog.Encoder, R any, P catalog.Decoder[R]](entity, segment string, client Doer, limit int, tel *telemetry) *Resource[W, R, P] {
	return &Resource[W, R, P]{
		entity:  entity,
		segment: segment,
		client:  client,
		limit:   limit,
		tel:     tel,
	}
}

// Entity returns the entity name, e.g. "product_variant".
func (r *Resource[W, R, P]) Entity() string {
	return r.entity
}

// Segment returns the REST path segment, e.g. "product-variants".
func (r *Resource[W, R, P]) Segment() string {
	return r.segment
}

// FetchAll lists every record of the collection in backend order. A single
// invalid element fails the whole call with a SchemaValidationError.
func (r *Resource[W, R, P]) FetchAll(ctx context.Context) (_ []R, rerr error) {
	var n int
	ctx, end := r.tel.start(ctx, r.entity, OpFetchAll, 0)
	defer func() { end(n, rerr) }()

	raw, err := r.client.Do(ctx, http.MethodGet, r.segment, nil)
	if err != nil {
		return nil, classify(r.entity, OpFetchAll, -1, err)
	}

	out, err := catalog.DecodeList[R, P](r.entity, raw)
	if err != nil {
		return nil, classify(r.entity, OpFetchAll, -1, err)
	}
	n = len(out)

	zctx.From(ctx).Debug("Fetched records",
		zap.String("entity", r.entity),
		zap.Int("count", n),
	)
	return out, nil
}

// CreateMany creates all records with concurrent POSTs and returns the stored
// records in input order. It is all-or-nothing: any transport failure yields
// BackendUnavailable and any undecodable response yields
// SchemaValidationError, and no records are returned in either case. Records
// whose POST already succeeded stay persisted on the backend.
func (r *Resource[W, R, P]) CreateMany(ctx context.Context, records []W) (_ []R, rerr error) {
	var n int
	ctx, end := r.tel.start(ctx, r.entity, OpCreateMany, len(records))
	defer func() { end(n, rerr) }()

	if len(records) == 0 {
		return []R{}, nil
	}

	raws := make([]jx.Raw, len(records))
	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, rec := range records {
		g.Go(func() error {
			raw, err := r.client.Do(ctx, http.MethodPost, r.segment, rec)
			if err != nil {
				return classify(r.entity, OpCreateMany, i, err)
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.warnPartial(ctx, raws)
		return nil, err
	}

	out := make([]R, len(records))
	for i, raw := range raws {
		if err := P(&out[i]).Decode(jx.DecodeBytes(raw)); err != nil {
			markIndex(err, i)
			return nil, classify(r.entity, OpCreateMany, i, err)
		}
	}
	n = len(out)

	zctx.From(ctx).Debug("Created records",
		zap.String("entity", r.entity),
		zap.Int("count", n),
	)
	return out, nil
}

// CreateEach is the best-effort variant of CreateMany: every record gets its
// own Outcome, in input order, so callers can see exactly which records the
// backend accepted.
func (r *Resource[W, R, P]) CreateEach(ctx context.Context, records []W) []Outcome[R] {
	var n int
	ctx, end := r.tel.start(ctx, r.entity, OpCreateEach, len(records))
	defer func() { end(n, nil) }()

	out := make([]Outcome[R], len(records))
	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, rec := range records {
		g.Go(func() error {
			raw, err := r.client.Do(ctx, http.MethodPost, r.segment, rec)
			if err != nil {
				out[i].Err = classify(r.entity, OpCreateEach, i, err)
				return nil
			}
			if err := P(&out[i].Record).Decode(jx.DecodeBytes(raw)); err != nil {
				markIndex(err, i)
				out[i].Err = classify(r.entity, OpCreateEach, i, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	n = len(out) - Failed(out)
	if n < len(out) {
		zctx.From(ctx).Warn("Best-effort create finished with failures",
			zap.String("entity", r.entity),
			zap.Int("created", n),
			zap.Int("failed", len(out)-n),
		)
	}
	return out
}

// warnPartial logs how many POSTs of a failed batch were accepted anyway.
func (r *Resource[W, R, P]) warnPartial(ctx context.Context, raws []jx.Raw) {
	var created int
	for _, raw := range raws {
		if raw != nil {
			created++
		}
	}
	if created == 0 {
		return
	}
	zctx.From(ctx).Warn("Batch failed after some records were created",
		zap.String("entity", r.entity),
		zap.Int("created", created),
		zap.Int("total", len(raws)),
	)
}

func markIndex(err error, i int) {
	var serr *catalog.SchemaError
	if errors.As(err, &serr) {
		serr.Index = i
	}
}
