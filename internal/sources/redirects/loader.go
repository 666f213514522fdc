package redirects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"
)

// Loader reads the redirect table from a local file or an s3:// object.
// Locations ending in ".gz" are gunzipped first.
type Loader struct {
	location string
	objects  ObjectGetter
}

// NewLoader creates a loader. objects is only needed for s3:// locations.
func NewLoader(location string, objects ObjectGetter) *Loader {
	return &Loader{
		location: location,
		objects:  objects,
	}
}

// Location returns where the table is read from.
func (l *Loader) Location() string { return l.location }

// Load reads and parses the table.
func (l *Loader) Load(ctx context.Context) (Config, error) {
	data, err := l.read(ctx)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(l.location, ".gz") {
		if data, err = gunzip(data); err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", l.location, err)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse redirect table: %w", err)
	}
	return cfg, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if IsS3Location(l.location) {
		if l.objects == nil {
			return nil, errors.New("s3 location configured without an s3 client")
		}
		return fetchS3(ctx, l.objects, l.location)
	}

	data, err := os.ReadFile(l.location)
	if err != nil {
		return nil, fmt.Errorf("failed to read redirect file: %w", err)
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(io.LimitReader(zr, maxTableSize))
}
