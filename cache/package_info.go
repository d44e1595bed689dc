// Package cache derives the content-addressed keys and file locations of scenario fixtures and
// preprocessed datasets.
//
// The key of a dataset has two parts: the digest of the feature file that defines the scenario,
// and the digest of the build that preprocesses it (the preprocessing binaries and the profile
// scripts). Both are pure functions of file content, so the same inputs always map to the same
// directory and any change to them maps to a different one.
package cache
