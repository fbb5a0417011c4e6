package descriptor

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-compgen/components"
)

// Default loads the descriptors shipped with the module.
func Default() (*Set, error) {
	return LoadFS(components.FS)
}

// LoadFS walks fsys and parses every JSON, YAML or CUE descriptor file. A nil
// fsys yields an empty set.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := NewSet()
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !IsDescriptorFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("descriptor: read %s: %w", path, err)
		}
		desc, err := Parse(data, path)
		if err != nil {
			return err
		}
		return set.Add(desc)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// LoadDirs loads every directory in order and merges the results. A type
// declared in two directories is a duplicate.
func LoadDirs(dirs ...string) (*Set, error) {
	set := NewSet()
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("descriptor: stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("descriptor: %s is not a directory", dir)
		}
		loaded, err := LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		for _, desc := range loaded.Descriptors() {
			desc.Source = filepath.Join(dir, filepath.FromSlash(desc.Source))
		}
		if err := set.Merge(loaded); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Parse decodes one descriptor. CUE sources are evaluated first and must be
// concrete; anything else is read as JSON, then YAML.
func Parse(data []byte, source string) (*Descriptor, error) {
	var desc Descriptor
	if strings.EqualFold(filepath.Ext(source), ".cue") {
		encoded, err := evaluateCUE(data, source)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(encoded, &desc); err != nil {
			return nil, fmt.Errorf("descriptor: parse %s: %w", source, err)
		}
	} else if err := json.Unmarshal(data, &desc); err != nil {
		desc = Descriptor{}
		if yamlErr := yaml.Unmarshal(data, &desc); yamlErr != nil {
			return nil, fmt.Errorf("descriptor: parse %s: invalid JSON or YAML", source)
		}
	}
	desc.Source = source
	if strings.TrimSpace(desc.Type) == "" {
		return nil, fmt.Errorf("%w: %s: type is required", ErrInvalidDescriptor, source)
	}
	return &desc, nil
}

func evaluateCUE(data []byte, source string) ([]byte, error) {
	value := cuecontext.New().CompileBytes(data, cue.Filename(source))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("descriptor: compile %s: %w", source, err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("descriptor: %s is not concrete: %w", source, err)
	}
	encoded, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("descriptor: export %s: %w", source, err)
	}
	return encoded, nil
}

// IsDescriptorFile reports whether path has a descriptor extension.
func IsDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".cue":
		return true
	default:
		return false
	}
}
