package redirects

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
)

const sampleTable = `---
# resume
"https://swooby.com/pv/resume":
  - /cv
  - /r
  - /resume
"https://github.com/paulpv": /pv/github
"https://example.com/target": ["/go", "/g"]
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func gz(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestLoaderLoad(t *testing.T) {
	cfg, err := NewLoader(writeFile(t, "redirects.yaml", []byte(sampleTable)), nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		{Destination: "https://swooby.com/pv/resume", Paths: Triggers{"/cv", "/r", "/resume"}},
		{Destination: "https://github.com/paulpv", Paths: Triggers{"/pv/github"}},
		{Destination: "https://example.com/target", Paths: Triggers{"/go", "/g"}},
	}
	if len(cfg) != len(want) {
		t.Fatalf("Load() returned %d entries, want %d", len(cfg), len(want))
	}
	for i := range want {
		if cfg[i].Destination != want[i].Destination || !reflect.DeepEqual(cfg[i].Paths, want[i].Paths) {
			t.Errorf("entry %d = %+v, want %+v", i, cfg[i], want[i])
		}
		if cfg[i].Line == 0 {
			t.Errorf("entry %d has no line number", i)
		}
	}
}

func TestLoaderLoadJSON(t *testing.T) {
	data := []byte(`{"https://example.com/target": ["/go", "/g"], "https://example.com/x": "/x"}`)
	cfg, err := NewLoader(writeFile(t, "redirects.json", data), nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg) != 2 || cfg[1].Paths[0] != "/x" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoaderLoadGzip(t *testing.T) {
	p := writeFile(t, "redirects.yaml.gz", gz(t, []byte(sampleTable)))
	cfg, err := NewLoader(p, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg) != 3 {
		t.Errorf("Load() returned %d entries, want 3", len(cfg))
	}
}

func TestLoaderLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		location string
	}{
		{"missing file", "/nonexistent/redirects.yaml"},
		{"not a mapping", writeFile(t, "list.yaml", []byte("- /go\n- /g\n"))},
		{"nested mapping value", writeFile(t, "nested.yaml", []byte("\"https://a.example\":\n  path: /a\n"))},
		{"null value", writeFile(t, "null.yaml", []byte("\"https://a.example\":\n"))},
		{"bad gzip", writeFile(t, "bad.yaml.gz", []byte("plain text"))},
		{"s3 without client", "s3://bucket/redirects.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader(tt.location, nil).Load(context.Background()); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

type fakeObjects struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestLoaderLoadS3(t *testing.T) {
	objects := &fakeObjects{body: gz(t, []byte(sampleTable))}
	loader := NewLoader("s3://swooby-config/tables/redirects.yaml.gz", objects)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if objects.bucket != "swooby-config" || objects.key != "tables/redirects.yaml.gz" {
		t.Errorf("GetObject(%q, %q)", objects.bucket, objects.key)
	}
	if len(cfg) != 3 {
		t.Errorf("Load() returned %d entries, want 3", len(cfg))
	}

	objects.err = errors.New("access denied")
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Load() should surface s3 errors")
	}
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://b/k.yaml", "b", "k.yaml", false},
		{"s3://b/dir/k.yaml", "b", "dir/k.yaml", false},
		{"s3://b", "", "", true},
		{"s3://b/", "", "", true},
		{"s3:///k", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := parseS3URI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseS3URI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.bucket || key != tt.key {
				t.Errorf("parseS3URI() = (%q, %q), want (%q, %q)", bucket, key, tt.bucket, tt.key)
			}
		})
	}
}
