package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/janelia-flyem/labelmultiset/datatype/common/downres"
	"github.com/janelia-flyem/labelmultiset/dvid"
)

const testConfig = `
[logging]
logfile = "multiset.log"
max_log_size = 100
max_log_age = 7

[downres]
scales = 5
restrict_set = 4
workers = 2

[ingest]
chunk = [8, 16, 16]
`

func TestLoadConfig(t *testing.T) {
	tc, err := loadConfig("")
	if err != nil {
		t.Fatalf("default config: %v\n", err)
	}
	if tc.Downres.Scales != 3 || tc.Downres.RestrictSet != downres.Unrestricted {
		t.Errorf("bad default config: %+v\n", tc)
	}

	dir := t.TempDir()
	filename := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(filename, []byte(testConfig), 0644); err != nil {
		t.Fatalf("can't write config: %v\n", err)
	}
	if tc, err = loadConfig(filename); err != nil {
		t.Fatalf("can't load config: %v\n", err)
	}
	absDir, _ := filepath.Abs(dir)
	if tc.Logging.Logfile != filepath.Join(absDir, "multiset.log") {
		t.Errorf("expected absolute log path, got %q\n", tc.Logging.Logfile)
	}
	if tc.Logging.MaxSize != 100 || tc.Logging.MaxAge != 7 {
		t.Errorf("bad logging config: %+v\n", tc.Logging)
	}
	if tc.Downres.Scales != 5 || tc.Downres.RestrictSet != 4 || tc.Downres.Workers != 2 {
		t.Errorf("bad downres config: %+v\n", tc.Downres)
	}
	chunk, err := tc.Ingest.chunkShape(3)
	if err != nil || !chunk.Equals(dvid.PointNd{8, 16, 16}) {
		t.Errorf("expected chunk (8,16,16), got %s, %v\n", chunk, err)
	}
	if _, err := tc.Ingest.chunkShape(2); err == nil {
		t.Errorf("expected error for chunk with wrong dims\n")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[downres]\nscales = -1\n"), 0644); err != nil {
		t.Fatalf("can't write config: %v\n", err)
	}
	if _, err := loadConfig(bad); err == nil {
		t.Errorf("expected error for negative scales\n")
	}
	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("expected error for missing config file\n")
	}
}

func TestBuildLevel0(t *testing.T) {
	shape := dvid.PointNd{6, 7, 5}
	lbls := make([]uint64, shape.Prod())
	for i := range lbls {
		lbls[i] = uint64(i/9) % 11
	}
	whole, err := buildLevel0(lbls, shape, nil, 0)
	if err != nil {
		t.Fatalf("unchunked build failed: %v\n", err)
	}
	chunked, err := buildLevel0(lbls, shape, dvid.PointNd{4, 3, 5}, 2)
	if err != nil {
		t.Fatalf("chunked build failed: %v\n", err)
	}
	if !reflect.DeepEqual(chunked.Argmax(), whole.Argmax()) || !reflect.DeepEqual(chunked.Argmax(), lbls) {
		t.Errorf("chunked build does not reproduce labels\n")
	}
	if chunked.NumEntries() != whole.NumEntries() {
		t.Errorf("expected %d entries, got %d\n", whole.NumEntries(), chunked.NumEntries())
	}
	if _, err := buildLevel0(lbls, shape, dvid.PointNd{4, 3}, 2); err == nil {
		t.Errorf("expected error for chunk with wrong dims\n")
	}
}
