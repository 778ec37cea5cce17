// Package features loads help content for dashboard panels from plain
// text files so copy can be edited without a rebuild.
package features

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FeatureData represents the loaded information for a dashboard panel
type FeatureData struct {
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

// Loader handles loading feature data from files
type Loader struct {
	dir     string
	cache   map[string]FeatureData
	cacheMu sync.RWMutex
	loaded  bool
}

// NewLoader creates a new feature loader
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string]FeatureData),
	}
}

// Load reads all feature files from the directory
func (l *Loader) Load() error {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()
	return l.loadLocked()
}

func (l *Loader) loadLocked() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf(ErrMsgReadDirectoryFailed, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != FeatureFileExtension {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), FeatureFileExtension)
		path := filepath.Join(l.dir, entry.Name())

		data, err := l.parseFile(path)
		if err != nil {
			return fmt.Errorf(ErrMsgParseFileFailed, name, err)
		}

		l.cache[name] = data
	}

	l.loaded = true
	return nil
}

// GetFeature returns data for a specific feature
func (l *Loader) GetFeature(name string) (FeatureData, bool) {
	l.cacheMu.Lock()
	if !l.loaded {
		if err := l.loadLocked(); err != nil {
			l.cacheMu.Unlock()
			return FeatureData{}, false
		}
	}
	data, ok := l.cache[name]
	l.cacheMu.Unlock()
	return data, ok
}

// GetAllFeatures returns all loaded features
func (l *Loader) GetAllFeatures() map[string]FeatureData {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	if !l.loaded {
		_ = l.loadLocked()
	}

	// Return a copy to prevent modification
	result := make(map[string]FeatureData, len(l.cache))
	for k, v := range l.cache {
		result[k] = v
	}
	return result
}

func (l *Loader) parseFile(path string) (FeatureData, error) {
	file, err := os.Open(path)
	if err != nil {
		return FeatureData{}, err
	}
	defer file.Close()

	var description strings.Builder
	var tips []string
	scanner := bufio.NewScanner(file)
	parsingTips := false

	for scanner.Scan() {
		line := scanner.Text()

		if line == FeatureFileDelimiter {
			parsingTips = true
			continue
		}

		if parsingTips {
			if strings.TrimSpace(line) != "" {
				tips = append(tips, strings.TrimSpace(line))
			}
		} else {
			if description.Len() > 0 {
				description.WriteString("\n")
			}
			description.WriteString(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return FeatureData{}, err
	}

	return FeatureData{
		Description: strings.TrimSpace(description.String()),
		Tips:        tips,
	}, nil
}
