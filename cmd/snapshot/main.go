package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/roadnetwork"

	"github.com/joho/godotenv"
	"github.com/paulmach/osm"
)

var (
	lat         = flag.Float64("lat", 0, "center latitude")
	lng         = flag.Float64("lng", 0, "center longitude")
	radius      = flag.Float64("radius", 5, "capture radius in km")
	out         = flag.String("o", "roadnetwork.snap", "snapshot output file")
	pbfFile     = flag.String("pbf", "", "cut the area out of this openstreetmap pbf extract instead of querying overpass")
	overpassURL = flag.String("overpass", "", "overpass interpreter url (default $OVERPASS_URL or the public overpass-api.de instance)")
	timeout     = flag.Duration("timeout", 60*time.Second, "overpass request timeout")
)

// captures the road network around a point so the engine can serve it offline with -snapshot.
func main() {
	flag.Parse()
	_ = godotenv.Load()

	center := datastructure.NewCoordinate(*lat, *lng)
	ctx := context.Background()

	var (
		data *osm.OSM
		err  error
	)
	if *pbfFile != "" {
		log.Printf("reading osm file %s", *pbfFile)
		data, err = roadnetwork.LoadPBF(ctx, *pbfFile)
		if err != nil {
			log.Fatal(err)
		}
		data = roadnetwork.NewAreaIndex(data).Around(center, *radius)
	} else {
		url := *overpassURL
		if url == "" {
			url = os.Getenv("OVERPASS_URL")
		}
		fetcher := roadnetwork.NewOverpassFetcher(url, roadnetwork.WithTimeout(*timeout))
		log.Printf("querying overpass around (%.6f, %.6f) within %.2f km", *lat, *lng, *radius)
		data, err = fetcher.Fetch(ctx, center, *radius)
		if err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("captured %d nodes, %d ways", len(data.Nodes), len(data.Ways))
	if len(data.Nodes) == 0 {
		log.Fatal("no road data found in this area")
	}

	info := roadnetwork.SnapshotInfo{Center: center, RadiusKm: *radius}
	if err := roadnetwork.SaveSnapshotFile(*out, data, info); err != nil {
		log.Fatal(err)
	}
	log.Printf("snapshot written to %s", *out)
}
