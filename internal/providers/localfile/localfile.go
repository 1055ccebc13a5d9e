// Package localfile ingests GPX files from a local directory. Records from
// here are informational-only unless the file provider is put in the
// priority order; they carry no equipment and their id is the file name.
package localfile

import (
	"context"
	"encoding/xml"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ckdake/fitler/internal/domain"
)

// Scanner is the local-file adapter.
type Scanner struct {
	dir  string
	home *time.Location
}

// New builds a Scanner over dir. FIT and TCX files are out of scope; only
// .gpx is picked up.
func New(dir string, home *time.Location) *Scanner {
	return &Scanner{dir: dir, home: home}
}

// Name implements providers.Adapter.
func (s *Scanner) Name() domain.Provider { return domain.ProviderFile }

// FetchMonth walks the directory and parses every .gpx whose first track
// point falls inside the month. Unreadable files become timestamp-less
// records the engine will report as skipped.
func (s *Scanner) FetchMonth(ctx context.Context, month domain.Month) ([]domain.ProviderActivityRecord, error) {
	var records []domain.ProviderActivityRecord

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".gpx") {
			return nil
		}

		rec, perr := s.parseFile(path)
		if perr != nil {
			records = append(records, domain.ProviderActivityRecord{
				Provider:   domain.ProviderFile,
				ProviderID: filepath.Base(path),
			})
			return nil
		}
		if !month.Contains(rec.Start, s.home) {
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("localfile: scan %s: %w", s.dir, err)
	}
	return records, nil
}

type gpxFile struct {
	Tracks []struct {
		Name     string `xml:"name"`
		Segments []struct {
			Points []gpxPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

type gpxPoint struct {
	Lat  float64   `xml:"lat,attr"`
	Lon  float64   `xml:"lon,attr"`
	Time time.Time `xml:"time"`
}

func (s *Scanner) parseFile(path string) (domain.ProviderActivityRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProviderActivityRecord{}, err
	}

	var gpx gpxFile
	if err := xml.Unmarshal(data, &gpx); err != nil {
		return domain.ProviderActivityRecord{}, err
	}

	var start time.Time
	var name string
	var distance float64
	var prev *gpxPoint

	for _, trk := range gpx.Tracks {
		if name == "" {
			name = trk.Name
		}
		for _, seg := range trk.Segments {
			for i := range seg.Points {
				pt := seg.Points[i]
				if start.IsZero() && !pt.Time.IsZero() {
					start = pt.Time
				}
				if prev != nil {
					distance += haversineMiles(prev.Lat, prev.Lon, pt.Lat, pt.Lon)
				}
				prev = &seg.Points[i]
			}
			prev = nil // segments are discontinuous
		}
	}

	if start.IsZero() {
		return domain.ProviderActivityRecord{}, fmt.Errorf("no timestamped track points in %s", path)
	}

	return domain.ProviderActivityRecord{
		Provider:   domain.ProviderFile,
		ProviderID: filepath.Base(path),
		Start:      start.UTC(),
		Distance:   distance,
		Name:       name,
	}, nil
}

const earthRadiusMiles = 3958.8

func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
}
