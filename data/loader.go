package data

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed data-files
var dataFilesRoot embed.FS

const (
	dataBasePath  = "data-files"
	suiteDataFile = "suite.yaml"
)

//nolint:gochecknoglobals
var (
	loadOnce    sync.Once
	loadedSuite SuiteData
	loadErr     error
)

// LoadDataFile reads a file from the embedded data directory.
//
// The path parameter is relative to data/data-files.
func LoadDataFile(path string) ([]byte, error) {
	data, err := dataFilesRoot.ReadFile(dataBasePath + "/" + path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}

// Load returns the embedded suite data. The file is parsed and validated once per process;
// every caller gets a copy of the same values.
func Load() (SuiteData, error) {
	loadOnce.Do(func() {
		loadedSuite, loadErr = loadSuiteData(suiteDataFile)
	})
	return loadedSuite, loadErr
}

// MustLoad is Load for callers that cannot proceed without the data, such as suite registration.
func MustLoad() SuiteData {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

func loadSuiteData(path string) (SuiteData, error) {
	raw, err := LoadDataFile(path)
	if err != nil {
		return SuiteData{}, err
	}
	var d SuiteData
	if err := Parse(raw, &d); err != nil {
		return SuiteData{}, fmt.Errorf("error parsing %q: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return SuiteData{}, fmt.Errorf("invalid data in %q: %w", path, err)
	}
	return d, nil
}
