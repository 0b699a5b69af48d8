package roadnetwork

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/paulmach/osm"
)

var (
	// ErrNetworkFetch the map data provider could not be reached, timed out or answered garbage.
	ErrNetworkFetch = errors.New("road network fetch failed")
)

// Fetcher returns every runnable way within radiusKm of center plus the nodes of those ways.
// an empty result is not an error.
type Fetcher interface {
	Fetch(ctx context.Context, center datastructure.Coordinate, radiusKm float64) (*osm.OSM, error)
}

// IndexFetcher serves radius queries from an in memory AreaIndex (pbf extract or snapshot).
type IndexFetcher struct {
	index *AreaIndex
}

func NewIndexFetcher(index *AreaIndex) *IndexFetcher {
	return &IndexFetcher{index: index}
}

func (f *IndexFetcher) Fetch(ctx context.Context, center datastructure.Coordinate, radiusKm float64) (*osm.OSM, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFetch, err)
	}
	return f.index.Around(center, radiusKm), nil
}
