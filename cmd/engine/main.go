package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"

	_ "github.com/danielcfuentes/capstone-project-sub000/docs"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/engine/routingalgorithm"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/roadnetwork"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/server/rest"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/server/rest/service"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/snap"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr    = flag.String("listenaddr", "", "server listen address (default $LISTEN_ADDR or :5000)")
	overpassURL   = flag.String("overpass", "", "overpass interpreter url (default $OVERPASS_URL or the public overpass-api.de instance)")
	pbfFile       = flag.String("pbf", "", "serve road networks from this openstreetmap pbf extract instead of overpass")
	snapshotFile  = flag.String("snapshot", "", "serve road networks from a snapshot written by cmd/snapshot instead of overpass")
	strategy      = flag.String("strategy", routingalgorithm.StrategyGreedy, "default loop search strategy: greedy or heuristic")
	tolerance     = flag.Float64("tolerance", 0.1, "accepted relative deviation from the requested distance")
	maxIterations = flag.Int("maxiter", 5000, "loop search step budget per request")
	closureSnap   = flag.Float64("closuresnap", math.Inf(1), "longest straight hop back to the start (km) accepted when the start is not adjacent")
	snapper       = flag.String("snapper", "linear", "start node lookup: linear or rtree")
	cpuprofile    = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile    = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			loop route engine API
//	@version		1.0
//	@description	openstreetmap running loop generator in go. fetches the road network around a point and walks a closed loop of about the requested distance

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	fetcher, err := newFetcher(context.Background(), reg)
	if err != nil {
		log.Fatal(err)
	}
	recordMemProfile(memprofile, "load_road_network")

	cfg := routingalgorithm.DefaultConfig()
	cfg.Strategy = *strategy
	cfg.Tolerance = *tolerance
	cfg.MaxIterations = *maxIterations
	cfg.ClosureSnapKm = *closureSnap

	routeSvc, err := service.NewRouteGenerationService(fetcher, newSnapper(*snapper), cfg)
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := envOr(*listenAddr, "LISTEN_ADDR", ":5000")
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", portOf(addr))), //The url pointing to API definition
	))

	rest.LoopRouteRouter(r, routeSvc, m)

	fmt.Printf("\nloop route engine ready (strategy %s)!!", cfg.Strategy)
	fmt.Printf("\nserver started at %s\n", addr)

	log.Fatal(http.ListenAndServe(addr, r))
}

func newFetcher(ctx context.Context, reg prometheus.Registerer) (service.RoadNetworkFetcher, error) {
	switch {
	case *snapshotFile != "":
		f, info, err := roadnetwork.NewSnapshotFetcher(*snapshotFile)
		if err != nil {
			return nil, err
		}
		log.Printf("serving snapshot %s captured around (%.6f, %.6f) within %.2f km", *snapshotFile,
			info.Center.Lat, info.Center.Lon, info.RadiusKm)
		return f, nil
	case *pbfFile != "":
		log.Printf("reading osm file %s", *pbfFile)
		return roadnetwork.NewPBFFetcher(ctx, *pbfFile)
	default:
		url := envOr(*overpassURL, "OVERPASS_URL", roadnetwork.DefaultOverpassURL)
		log.Printf("fetching road networks from %s", url)
		return roadnetwork.NewOverpassFetcher(url, roadnetwork.WithMetrics(roadnetwork.NewMetrics(reg))), nil
	}
}

func newSnapper(name string) service.NodeSnapper {
	if name == "rtree" {
		return snap.NewRtreeSnapper(8)
	}
	return snap.NewLinearSnapper()
}

func envOr(flagValue, key, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
