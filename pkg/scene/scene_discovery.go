package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/loaders"
)

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Builtin ID or file path
	Name        string // Scene name
	Description string // Optional description
	Group       string // Grouping category
	Type        string // "builtin" or "file"
	FilePath    string // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

// ListSceneFiles scans dir for TOML and YAML scene files. A missing directory
// yields no scenes; files that fail to parse are logged and skipped.
func ListSceneFiles(dir string, logger core.Logger) ([]SceneInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if entry.IsDir() || !loaders.IsSceneFile(entry.Name()) {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		info, err := ReadSceneInfo(filePath)
		if err != nil {
			logger.Printf("Warning: skipping %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ReadSceneInfo extracts the metadata of a scene file, falling back to a
// name derived from the filename
func ReadSceneInfo(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Group:    fileGroup,
		Type:     "file",
		FilePath: filePath,
	}

	sf, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return info, err
	}

	if sf.Name != "" {
		info.Name = sf.Name
	}
	if sf.Group != "" {
		info.Group = sf.Group
	}
	info.Description = sf.Description

	return info, nil
}

// ListAllScenes returns built-in scenes followed by the scene files in dir,
// grouped by category with the built-in group first
func ListAllScenes(dir string, logger core.Logger) ([]SceneGroup, error) {
	var all []SceneInfo
	for _, b := range Builtins() {
		all = append(all, SceneInfo{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	files, err := ListSceneFiles(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}
	all = append(all, files...)

	groupMap := make(map[string][]SceneInfo)
	var groupNames []string
	for _, s := range all {
		if _, seen := groupMap[s.Group]; !seen && s.Group != builtinGroup {
			groupNames = append(groupNames, s.Group)
		}
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}

	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
