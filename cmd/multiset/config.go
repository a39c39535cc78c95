package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/janelia-flyem/labelmultiset/datatype/common/downres"
	"github.com/janelia-flyem/labelmultiset/dvid"
)

type tomlConfig struct {
	Logging dvid.LogConfig
	Downres downresConfig
	Ingest  ingestConfig
}

type downresConfig struct {
	// Scales is the number of 2x down-resolution levels to compute.
	Scales      int
	RestrictSet int `toml:"restrict_set"`
	Workers     int
}

type ingestConfig struct {
	// Chunk is the shape of independently constructed chunks that are merged into
	// the level 0 multiset.  If empty, the volume is constructed in one piece.
	Chunk []int32
}

func defaultConfig() tomlConfig {
	return tomlConfig{
		Downres: downresConfig{
			Scales:      3,
			RestrictSet: downres.Unrestricted,
		},
	}
}

// loadConfig decodes a TOML configuration file on top of the defaults.  A relative
// log file path is taken relative to the configuration file's directory.
func loadConfig(filename string) (tomlConfig, error) {
	tc := defaultConfig()
	if filename == "" {
		return tc, nil
	}
	if _, err := toml.DecodeFile(filename, &tc); err != nil {
		return tc, fmt.Errorf("could not decode TOML config: %v", err)
	}
	if tc.Logging.Logfile != "" && !filepath.IsAbs(tc.Logging.Logfile) {
		configDir, err := filepath.Abs(filepath.Dir(filename))
		if err != nil {
			return tc, fmt.Errorf("error converting logfile setting to absolute path: %v", err)
		}
		tc.Logging.Logfile = filepath.Join(configDir, tc.Logging.Logfile)
	}
	if tc.Downres.Scales < 0 {
		return tc, fmt.Errorf("number of scales must be non-negative, got %d", tc.Downres.Scales)
	}
	return tc, nil
}

// chunkShape returns the configured chunk shape or nil if none was given.
func (c ingestConfig) chunkShape(ndims int) (dvid.PointNd, error) {
	if len(c.Chunk) == 0 {
		return nil, nil
	}
	if len(c.Chunk) != ndims {
		return nil, fmt.Errorf("chunk %v has %d dims, volume has %d", c.Chunk, len(c.Chunk), ndims)
	}
	return dvid.PointNd(c.Chunk), nil
}
