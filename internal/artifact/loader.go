package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name that marks a directory as an artifact bundle.
const ManifestFile = "manifest.yaml"

// Resolve returns the first directory containing a bundle manifest. The
// override directory, when non-empty, is the only candidate; otherwise the
// search paths are probed in order. The error lists every path searched so a
// misconfigured deployment is diagnosable from the log line alone.
func Resolve(override string, searchPaths []string) (string, error) {
	candidates := searchPaths
	if override != "" {
		candidates = []string{override}
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err == nil {
			return dir, nil
		}
	}

	return "", fmt.Errorf("no artifact bundle found (searched: %s)", strings.Join(candidates, ", "))
}

// Load reads and validates the artifact bundle in dir.
func Load(dir string) (*Bundle, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", manifestPath, err)
	}
	if manifest.PreprocessorFile == "" || manifest.ModelFile == "" {
		return nil, fmt.Errorf("manifest %s must name both preprocessor and model files", manifestPath)
	}

	pre := &Preprocessor{}
	if err := readJSON(filepath.Join(dir, manifest.PreprocessorFile), pre); err != nil {
		return nil, err
	}

	clf := &Classifier{}
	if err := readJSON(filepath.Join(dir, manifest.ModelFile), clf); err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Manifest:     manifest,
		Preprocessor: pre,
		Classifier:   clf,
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact bundle in %s: %w", dir, err)
	}

	return bundle, nil
}

func readJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return nil
}
