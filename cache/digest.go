package cache

import (
	"crypto/md5" //nolint:gosec // the cache layout on disk is keyed by MD5 digests
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Digest is a lowercase hex encoded MD5 digest.
type Digest string

// DigestOfFile returns the digest of a single file's content. The file is streamed rather than
// read into memory, since server binaries can be large.
func DigestOfFile(path string) (Digest, error) {
	h := md5.New() //nolint:gosec
	if err := foldFile(h, path); err != nil {
		return "", err
	}
	return sum(h), nil
}

// DigestOfFiles folds the content of several files, in order, into one digest. Empty files
// contribute nothing.
func DigestOfFiles(paths []string) (Digest, error) {
	h := md5.New() //nolint:gosec
	for _, p := range paths {
		if err := foldFile(h, p); err != nil {
			return "", err
		}
	}
	return sum(h), nil
}

// DigestOfDependencySet returns the digest that identifies the build of the system under test:
// the preprocessing binaries found in buildDir followed by the profile scripts under profilesDir.
func DigestOfDependencySet(buildDir, profilesDir string) (Digest, error) {
	paths, err := DependencyPaths(buildDir, profilesDir)
	if err != nil {
		return "", err
	}
	return DigestOfFiles(paths)
}

// DependencyBinaries are the base names of the executables a dataset depends on, in the order
// they are hashed. Builds name them either with hyphens or with underscores.
var DependencyBinaries = []string{
	"osrm-extract",
	"osrm-contract",
	"osrm-customize",
	"osrm-partition",
	"osrm_extract",
	"osrm_contract",
	"osrm_customize",
	"osrm_partition",
}

// ProfileExtension is the extension of the profile scripts that a dataset depends on.
const ProfileExtension = ".lua"

// DependencyPaths lists, in hashing order, the files that DigestOfDependencySet folds together.
// A binary name is resolved to the first entry of buildDir, in name order, whose file stem
// contains it; names that match nothing are left out.
func DependencyPaths(buildDir, profilesDir string) ([]string, error) {
	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return nil, fmt.Errorf("reading build directory: %w", err)
	}
	var paths []string
	for _, name := range DependencyBinaries {
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if strings.Contains(stem, name) {
				paths = append(paths, filepath.Join(buildDir, e.Name()))
				break
			}
		}
	}

	scripts, err := LexicographicFiles(profilesDir)
	if err != nil {
		return nil, fmt.Errorf("walking profiles directory: %w", err)
	}
	for _, p := range scripts {
		if filepath.Ext(p) != ProfileExtension || isExampleProfile(profilesDir, p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// isExampleProfile returns true if the script is inside an "examples" directory below
// profilesDir. Directories above profilesDir don't count.
func isExampleProfile(profilesDir, path string) bool {
	rel, err := filepath.Rel(profilesDir, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if segment == "examples" {
			return true
		}
	}
	return false
}

func foldFile(h hash.Hash, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func sum(h hash.Hash) Digest {
	return Digest(hex.EncodeToString(h.Sum(nil)))
}
