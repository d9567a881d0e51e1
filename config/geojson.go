package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// geoJSONDoc is the minimal slice of a GeoJSON FeatureCollection needed to
// enumerate district names. Geometry is ignored entirely; serving it is the
// map frontend's business, not this service's.
type geoJSONDoc struct {
	Features []struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
}

// DistrictsFromGeoJSON extracts the district list from a GeoJSON
// FeatureCollection, using each feature's "name" property as both
// identifier and display name.
//
// This lets a deployment point at the same geometry file its map frontend
// renders, so the two can never disagree about which districts exist.
// Features without a name property are rejected, as are duplicate names.
func DistrictsFromGeoJSON(path string) ([]DistrictConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson file: %w", err)
	}

	var doc geoJSONDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("%s contains no features", path)
	}

	districts := make([]DistrictConfig, 0, len(doc.Features))
	seen := make(map[string]struct{}, len(doc.Features))
	for i, f := range doc.Features {
		name := f.Properties.Name
		if name == "" {
			return nil, fmt.Errorf("%s: feature %d has no name property", path, i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%s: duplicate feature name %q", path, name)
		}
		seen[name] = struct{}{}
		districts = append(districts, DistrictConfig{ID: name, Name: name})
	}
	return districts, nil
}
