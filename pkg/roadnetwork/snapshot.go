package roadnetwork

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"github.com/paulmach/osm"
)

const snapshotVersion uint32 = 1

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// SnapshotInfo the area a snapshot was captured for.
type SnapshotInfo struct {
	Center   datastructure.Coordinate
	RadiusKm float64
}

type snapshotTag struct {
	Key   string
	Value string
}

type snapshotNode struct {
	ID  int64
	Lat float64
	Lon float64
}

type snapshotWay struct {
	ID    int64
	Nodes []int64
	Tags  []snapshotTag
}

type snapshot struct {
	Version   uint32
	CenterLat float64
	CenterLon float64
	RadiusKm  float64
	Nodes     []snapshotNode
	Ways      []snapshotWay
}

func encodeSnapshot(data *osm.OSM, info SnapshotInfo) ([]byte, error) {
	s := snapshot{
		Version:   snapshotVersion,
		CenterLat: info.Center.Lat,
		CenterLon: info.Center.Lon,
		RadiusKm:  info.RadiusKm,
		Nodes:     make([]snapshotNode, 0, len(data.Nodes)),
		Ways:      make([]snapshotWay, 0, len(data.Ways)),
	}
	for _, n := range data.Nodes {
		s.Nodes = append(s.Nodes, snapshotNode{ID: int64(n.ID), Lat: n.Lat, Lon: n.Lon})
	}
	for _, w := range data.Ways {
		sw := snapshotWay{
			ID:    int64(w.ID),
			Nodes: make([]int64, 0, len(w.Nodes)),
			Tags:  make([]snapshotTag, 0, len(w.Tags)),
		}
		for _, wn := range w.Nodes {
			sw.Nodes = append(sw.Nodes, int64(wn.ID))
		}
		for _, t := range w.Tags {
			sw.Tags = append(sw.Tags, snapshotTag{Key: t.Key, Value: t.Value})
		}
		s.Ways = append(s.Ways, sw)
	}
	return binary.Marshal(s)
}

func decodeSnapshot(bb []byte) (*osm.OSM, SnapshotInfo, error) {
	var s snapshot
	if err := binary.Unmarshal(bb, &s); err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, SnapshotInfo{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}

	data := &osm.OSM{
		Nodes: make(osm.Nodes, 0, len(s.Nodes)),
		Ways:  make(osm.Ways, 0, len(s.Ways)),
	}
	for _, n := range s.Nodes {
		data.Nodes = append(data.Nodes, &osm.Node{ID: osm.NodeID(n.ID), Lat: n.Lat, Lon: n.Lon, Visible: true})
	}
	for _, w := range s.Ways {
		way := &osm.Way{
			ID:      osm.WayID(w.ID),
			Visible: true,
			Nodes:   make(osm.WayNodes, 0, len(w.Nodes)),
		}
		for _, id := range w.Nodes {
			way.Nodes = append(way.Nodes, osm.WayNode{ID: osm.NodeID(id)})
		}
		if len(w.Tags) > 0 {
			way.Tags = make(osm.Tags, 0, len(w.Tags))
			for _, t := range w.Tags {
				way.Tags = append(way.Tags, osm.Tag{Key: t.Key, Value: t.Value})
			}
		}
		data.Ways = append(data.Ways, way)
	}
	info := SnapshotInfo{
		Center:   datastructure.NewCoordinate(s.CenterLat, s.CenterLon),
		RadiusKm: s.RadiusKm,
	}
	return data, info, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}

// WriteSnapshot writes data as a zstd compressed binary snapshot.
func WriteSnapshot(w io.Writer, data *osm.OSM, info SnapshotInfo) error {
	encoded, err := encodeSnapshot(data, info)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	compressed, err := compress(encoded)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	_, err = io.Copy(w, bytes.NewReader(compressed))
	return err
}

func ReadSnapshot(r io.Reader) (*osm.OSM, SnapshotInfo, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("read snapshot: %w", err)
	}
	bb, err := decompress(compressed)
	if err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("decompress snapshot: %w", err)
	}
	return decodeSnapshot(bb)
}

func SaveSnapshotFile(path string, data *osm.OSM, info SnapshotInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(f, data, info); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadSnapshotFile(path string) (*osm.OSM, SnapshotInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SnapshotInfo{}, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// NewSnapshotFetcher serves radius queries from a snapshot file captured with cmd/snapshot.
func NewSnapshotFetcher(path string) (*IndexFetcher, SnapshotInfo, error) {
	data, info, err := LoadSnapshotFile(path)
	if err != nil {
		return nil, SnapshotInfo{}, err
	}
	return NewIndexFetcher(NewAreaIndex(data)), info, nil
}
