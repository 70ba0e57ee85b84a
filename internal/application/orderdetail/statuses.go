package orderdetail

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/order"
)

// StatusLister fetches the ordered status-definition list from the upstream
// platform.
type StatusLister interface {
	ListStatuses(ctx context.Context) ([]order.StatusDefinition, error)
}

// StatusLabelCache caches the status-definition list between upstream
// fetches. Implementations live in infrastructure/cache.
type StatusLabelCache interface {
	Get(ctx context.Context) ([]order.StatusDefinition, bool)
	Set(ctx context.Context, defs []order.StatusDefinition)
}

// ResolvedStatus pairs a status code with its resolved display label.
type ResolvedStatus struct {
	StatusCode string `json:"statusCode"`
	Label      string `json:"label"`
}

// StatusDirectory resolves raw order statuses to display labels, caching
// the upstream status list.
type StatusDirectory struct {
	lister    StatusLister
	cache     StatusLabelCache
	translate Translator
}

// NewStatusDirectory creates a StatusDirectory. A nil cache disables
// caching; a nil translator uses the built-in labels.
func NewStatusDirectory(lister StatusLister, cache StatusLabelCache, translate Translator) *StatusDirectory {
	if translate == nil {
		translate = DefaultTranslator()
	}
	return &StatusDirectory{lister: lister, cache: cache, translate: translate}
}

// List returns the status list with resolved labels, order preserved as
// given by the upstream.
func (d *StatusDirectory) List(ctx context.Context) ([]ResolvedStatus, error) {
	defs, err := d.definitions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ResolvedStatus, 0, len(defs))
	for _, def := range defs {
		out = append(out, ResolvedStatus{
			StatusCode: def.StatusCode,
			Label:      order.ResolveStatusLabel(defs, def.SystemLabel, d.translate),
		})
	}
	return out, nil
}

// Resolve resolves one raw status string to its display label.
func (d *StatusDirectory) Resolve(ctx context.Context, status string) (string, error) {
	defs, err := d.definitions(ctx)
	if err != nil {
		return "", err
	}
	return order.ResolveStatusLabel(defs, status, d.translate), nil
}

func (d *StatusDirectory) definitions(ctx context.Context) ([]order.StatusDefinition, error) {
	if d.cache != nil {
		if defs, ok := d.cache.Get(ctx); ok {
			return defs, nil
		}
	}
	defs, err := d.lister.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		d.cache.Set(ctx, defs)
	}
	return defs, nil
}
