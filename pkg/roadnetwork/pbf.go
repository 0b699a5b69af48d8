package roadnetwork

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/osmparser"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"
)

// LoadPBF reads the runnable ways of an .osm.pbf extract and their nodes.
func LoadPBF(ctx context.Context, path string) (*osm.OSM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pbf %s: %w", path, err)
	}
	defer f.Close()

	bar := newProgressBar("[cyan][1/2][reset] reading openstreetmap ways ...")
	ways := make(osm.Ways, 0)
	wayNodes := make(map[osm.NodeID]struct{})

	// must not be parallel
	scanner := osmpbf.New(ctx, f, 0)
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if len(way.Nodes) < 2 || !osmparser.AcceptOsmWay(way) {
			continue
		}
		ways = append(ways, way)
		for _, wn := range way.Nodes {
			wayNodes[wn.ID] = struct{}{}
		}
		bar.Add(1)
	}
	scanErr := scanner.Err()
	scanner.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("scan pbf ways: %w", scanErr)
	}
	bar.Finish()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind pbf: %w", err)
	}

	bar = newProgressBar("[cyan][2/2][reset] reading openstreetmap nodes ...")
	nodes := make(osm.Nodes, 0, len(wayNodes))
	scanner = osmpbf.New(ctx, f, 0)
	defer scanner.Close()
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, ok := wayNodes[node.ID]; !ok {
			continue
		}
		nodes = append(nodes, node)
		bar.Add(1)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan pbf nodes: %w", err)
	}
	bar.Finish()

	log.Printf("pbf %s loaded: %d ways, %d nodes", path, len(ways), len(nodes))
	return &osm.OSM{Nodes: nodes, Ways: ways}, nil
}

// NewPBFFetcher loads the extract once and answers radius queries from memory.
func NewPBFFetcher(ctx context.Context, path string) (*IndexFetcher, error) {
	data, err := LoadPBF(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewIndexFetcher(NewAreaIndex(data)), nil
}

func newProgressBar(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
