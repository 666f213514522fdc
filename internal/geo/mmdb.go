package geo

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"

	"github.com/swooby/swoo.by/internal/domain"
)

// MMDB answers lookups from a local MaxMind/DB-IP city database.
type MMDB struct {
	reader *maxminddb.Reader
	path   string
}

type mmdbCity struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Subdivisions []struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
		TimeZone  string  `maxminddb:"time_zone"`
	} `maxminddb:"location"`
}

// OpenMMDB opens the database at path.
func OpenMMDB(path string) (*MMDB, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mmdb %s: %w", path, err)
	}
	return &MMDB{reader: reader, path: path}, nil
}

// Lookup returns (nil, nil) for addresses the database does not cover.
func (m *MMDB) Lookup(_ context.Context, ip string) (*domain.GeoInfo, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return nil, fmt.Errorf("invalid ip %q", ip)
	}

	var rec mmdbCity
	_, ok, err := m.reader.LookupNetwork(parsed, &rec)
	if err != nil {
		return nil, fmt.Errorf("mmdb lookup failed: %w", err)
	}
	if !ok {
		return nil, nil
	}

	info := &domain.GeoInfo{
		Country: rec.Country.Names["en"],
		City:    rec.City.Names["en"],
		Raw: map[string]any{
			"query":       ip,
			"country":     rec.Country.Names["en"],
			"countryCode": rec.Country.ISOCode,
			"city":        rec.City.Names["en"],
			"lat":         rec.Location.Latitude,
			"lon":         rec.Location.Longitude,
			"timezone":    rec.Location.TimeZone,
			"source":      "mmdb",
		},
	}
	if len(rec.Subdivisions) > 0 {
		info.Raw["region"] = rec.Subdivisions[0].ISOCode
		info.Raw["regionName"] = rec.Subdivisions[0].Names["en"]
	}
	if info.Country == "" && info.City == "" {
		return nil, nil
	}
	return info, nil
}

// Path returns the database file the reader was opened from.
func (m *MMDB) Path() string { return m.path }

func (m *MMDB) Close() error {
	return m.reader.Close()
}
