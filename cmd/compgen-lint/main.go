package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-compgen/pkg/descriptor"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint component descriptor files. Every file is checked, not just the first failure.\n"); err != nil {
			panic(err)
		}
		flag.PrintDefaults()
	}
	noBuiltin := flag.Bool("no-builtin", false, "Do not resolve extends against the built-in components")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"components"}
	}

	violations, err := lint(paths, !*noBuiltin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

// lint parses every descriptor below paths, then builds each one against the
// combined set so extends across files resolve.
func lint(paths []string, builtin bool) ([]violation, error) {
	files, err := collect(paths)
	if err != nil {
		return nil, err
	}

	var result []violation
	local := descriptor.NewSet()
	parsed := make(map[string]string, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		desc, err := descriptor.Parse(raw, file)
		if err != nil {
			result = append(result, violation{file: file, location: "parse", message: err.Error()})
			continue
		}
		if err := local.Add(desc); err != nil {
			result = append(result, violation{file: file, location: "type " + desc.Type, message: err.Error()})
			continue
		}
		parsed[file] = desc.Type
		if stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)); stem != desc.Type {
			result = append(result, violation{
				file:     file,
				location: "type " + desc.Type,
				message:  fmt.Sprintf("file name %q should match the component type", filepath.Base(file)),
			})
		}
	}

	// linted files shadow built-in types of the same name
	combined := descriptor.NewSet()
	if err := combined.Merge(local); err != nil {
		return nil, err
	}
	if builtin {
		defaults, err := descriptor.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in descriptors: %w", err)
		}
		for _, desc := range defaults.Descriptors() {
			if _, ok := local.Lookup(desc.Type); ok {
				continue
			}
			if err := combined.Add(desc); err != nil {
				return nil, err
			}
		}
	}

	for file, typ := range parsed {
		if _, err := combined.Build(typ); err != nil {
			result = append(result, violation{file: file, location: "build " + typ, message: err.Error()})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].file == result[j].file {
			if result[i].location == result[j].location {
				return result[i].message < result[j].message
			}
			return result[i].location < result[j].location
		}
		return result[i].file < result[j].file
	})
	return result, nil
}

func collect(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && descriptor.IsDescriptorFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
