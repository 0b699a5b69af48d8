package roadnetwork

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/goccy/go-json"
	"github.com/paulmach/osm"
	"golang.org/x/exp/slices"
)

const (
	DefaultOverpassURL = "https://overpass-api.de/api/interpreter"
	OverpassTimeout    = 10 * time.Second

	overpassQuery = `[out:json][timeout:%d];
(
  way(around:%.0f,%.7f,%.7f)["highway"];
  way(around:%.0f,%.7f,%.7f)["footway"];
);
(._;>;);
out body;`
)

type overpassElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// OverpassFetcher queries a public overpass interpreter. one request per Fetch, no retries.
type OverpassFetcher struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	metrics  *Metrics
}

type OverpassOption func(*OverpassFetcher)

// WithHTTPClient sends requests through client. the client is used as is, the fetch timeout is
// enforced with a context deadline.
func WithHTTPClient(client *http.Client) OverpassOption {
	return func(f *OverpassFetcher) {
		f.client = client
	}
}

func WithTimeout(timeout time.Duration) OverpassOption {
	return func(f *OverpassFetcher) {
		f.timeout = timeout
	}
}

func WithMetrics(m *Metrics) OverpassOption {
	return func(f *OverpassFetcher) {
		f.metrics = m
	}
}

func NewOverpassFetcher(endpoint string, opts ...OverpassOption) *OverpassFetcher {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	f := &OverpassFetcher{
		endpoint: endpoint,
		timeout:  OverpassTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// BuildOverpassQuery every highway or footway way within radiusKm of center, recursed down to its nodes.
func BuildOverpassQuery(center datastructure.Coordinate, radiusKm float64, timeout time.Duration) string {
	meters := radiusKm * 1000
	seconds := int(timeout.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf(overpassQuery, seconds,
		meters, center.Lat, center.Lon,
		meters, center.Lat, center.Lon)
}

func (f *OverpassFetcher) Fetch(ctx context.Context, center datastructure.Coordinate, radiusKm float64) (*osm.OSM, error) {
	f.metrics.observeRequest()
	start := time.Now()

	data, err := f.fetch(ctx, center, radiusKm)
	if err != nil {
		f.metrics.observeFailure()
		return nil, err
	}
	f.metrics.observeSuccess(len(data.Nodes)+len(data.Ways), float64(time.Since(start).Milliseconds()))
	return data, nil
}

func (f *OverpassFetcher) fetch(ctx context.Context, center datastructure.Coordinate, radiusKm float64) (*osm.OSM, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("data", BuildOverpassQuery(center, radiusKm, f.timeout))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFetch, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: overpass responded with status %d", ErrNetworkFetch, resp.StatusCode)
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode overpass response: %w", ErrNetworkFetch, err)
	}
	return body.toOSM(), nil
}

// toOSM converts the overpass elements, unknown element types are skipped.
func (r overpassResponse) toOSM() *osm.OSM {
	data := &osm.OSM{
		Nodes: make(osm.Nodes, 0),
		Ways:  make(osm.Ways, 0),
	}
	for _, e := range r.Elements {
		switch e.Type {
		case "node":
			data.Nodes = append(data.Nodes, &osm.Node{
				ID:      osm.NodeID(e.ID),
				Lat:     e.Lat,
				Lon:     e.Lon,
				Visible: true,
				Tags:    toTags(e.Tags),
			})
		case "way":
			wayNodes := make(osm.WayNodes, 0, len(e.Nodes))
			for _, id := range e.Nodes {
				wayNodes = append(wayNodes, osm.WayNode{ID: osm.NodeID(id)})
			}
			data.Ways = append(data.Ways, &osm.Way{
				ID:      osm.WayID(e.ID),
				Visible: true,
				Nodes:   wayNodes,
				Tags:    toTags(e.Tags),
			})
		}
	}
	return data
}

func toTags(m map[string]string) osm.Tags {
	if len(m) == 0 {
		return nil
	}
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	slices.SortFunc(tags, func(a, b osm.Tag) int {
		return strings.Compare(a.Key, b.Key)
	})
	return tags
}
