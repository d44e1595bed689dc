package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FeaturesDirName is the name of the directory that holds the scenario definitions. Its parent is
// the project root, which also holds the cache tree.
const FeaturesDirName = "features"

const (
	fixtureExtension = ".osm"
	datasetExtension = ".osrm"
)

// ErrNoFeatureRoot is returned when a scenario file is not inside a features directory.
var ErrNoFeatureRoot = errors.New("scenario file is not inside a features directory")

// FeatureRoot returns the nearest ancestor of path that is named "features".
func FeatureRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for dir := filepath.Dir(abs); ; {
		if filepath.Base(dir) == FeaturesDirName {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNoFeatureRoot, path)
		}
		dir = parent
	}
}

// Layout is where the fixtures and datasets of one feature file live:
//
//	<root>/test/cache/<feature path>/<fixture digest>/<scenario>.osm
//	<root>/test/cache/<feature path>/<fixture digest>/<dependency digest>/<scenario>.osm
//	<root>/test/cache/<feature path>/<fixture digest>/<dependency digest>/<scenario>.osrm
//
// A change to the feature file moves its fixtures to a new directory, and a change to the build
// moves its datasets to a new directory, so stale files are never reused.
type Layout struct {
	// Root is the parent of the features directory.
	Root string
	// FeaturePath is the feature file's path relative to the features directory.
	FeaturePath      string
	FixtureDigest    Digest
	DependencyDigest Digest
}

// NewLayout computes the layout of a feature file. The feature file must be readable, since its
// content is part of the cache key.
func NewLayout(featureFile string, dependencyDigest Digest) (Layout, error) {
	featuresDir, err := FeatureRoot(featureFile)
	if err != nil {
		return Layout{}, err
	}
	abs, err := filepath.Abs(featureFile)
	if err != nil {
		return Layout{}, err
	}
	rel, err := filepath.Rel(featuresDir, abs)
	if err != nil {
		return Layout{}, err
	}
	digest, err := DigestOfFile(abs)
	if err != nil {
		return Layout{}, fmt.Errorf("hashing feature file: %w", err)
	}
	return Layout{
		Root:             filepath.Dir(featuresDir),
		FeaturePath:      rel,
		FixtureDigest:    digest,
		DependencyDigest: dependencyDigest,
	}, nil
}

func (l Layout) CacheDir() string {
	return filepath.Join(l.Root, "test", "cache")
}

func (l Layout) featureDir() string {
	return filepath.Join(l.CacheDir(), l.FeaturePath)
}

func (l Layout) FixtureDir() string {
	return filepath.Join(l.featureDir(), string(l.FixtureDigest))
}

func (l Layout) DatasetDir() string {
	return filepath.Join(l.FixtureDir(), string(l.DependencyDigest))
}

// FixtureFile is the map fixture written for a scenario.
func (l Layout) FixtureFile(scenarioID string) string {
	return filepath.Join(l.FixtureDir(), scenarioID+fixtureExtension)
}

// InputFile is the copy of the fixture that preprocessing reads; the tools write their output
// next to their input.
func (l Layout) InputFile(scenarioID string) string {
	return filepath.Join(l.DatasetDir(), scenarioID+fixtureExtension)
}

// DatasetFile is the preprocessed dataset that the server loads.
func (l Layout) DatasetFile(scenarioID string) string {
	return filepath.Join(l.DatasetDir(), scenarioID+datasetExtension)
}

// Prepare creates the dataset directory and removes the directories of other fixture digests and
// other dependency digests of this feature file. It returns the paths it removed.
func (l Layout) Prepare() ([]string, error) {
	if err := os.MkdirAll(l.DatasetDir(), 0o755); err != nil {
		return nil, err
	}
	removed, err := pruneSiblings(l.featureDir(), string(l.FixtureDigest), false)
	if err != nil {
		return removed, err
	}
	more, err := pruneSiblings(l.FixtureDir(), string(l.DependencyDigest), true)
	return append(removed, more...), err
}

func pruneSiblings(dir, keep string, dirsOnly bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, e := range entries {
		if e.Name() == keep || (dirsOnly && !e.IsDir()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			return removed, err
		}
		removed = append(removed, p)
	}
	return removed, nil
}
