package geo

import (
	"context"
	"errors"

	"github.com/swooby/swoo.by/internal/domain"
)

// LookupFunc resolves one IP. (nil, nil) means the source has no data for it.
type LookupFunc func(ctx context.Context, ip string) (*domain.GeoInfo, error)

// Chain tries each lookup in order and returns the first non-nil result.
// If none produced data, the errors of the failing lookups are joined.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(ctx context.Context, ip string) (*domain.GeoInfo, error) {
		var errs []error
		for _, lookup := range lookups {
			if lookup == nil {
				continue
			}
			info, err := lookup(ctx, ip)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if info != nil {
				return info, nil
			}
		}
		return nil, errors.Join(errs...)
	}
}

// SharedCache is a second cache tier shared between gateway instances.
type SharedCache interface {
	Get(ctx context.Context, ip string) (*domain.GeoInfo, error)
	Save(ctx context.Context, ip string, info *domain.GeoInfo) error
}

// ErrorReporter receives shared-cache failures, which never fail a lookup.
type ErrorReporter func(op string, err error)

// WithSharedCache consults shared before next and stores successful results
// from next back into it.
func WithSharedCache(shared SharedCache, next LookupFunc, report ErrorReporter) LookupFunc {
	if report == nil {
		report = func(string, error) {}
	}
	return func(ctx context.Context, ip string) (*domain.GeoInfo, error) {
		info, err := shared.Get(ctx, ip)
		if err != nil {
			report("get", err)
		} else if info != nil {
			return info, nil
		}

		info, err = next(ctx, ip)
		if err != nil || info == nil {
			return info, err
		}

		if err := shared.Save(ctx, ip, info); err != nil {
			report("save", err)
		}
		return info, nil
	}
}
