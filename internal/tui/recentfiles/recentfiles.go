// ABOUTME: Manages the recent photo files list for the photo picker
// ABOUTME: Stores recently uploaded image paths in the config directory

package recentfiles

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxRecentFiles is the maximum number of recent photo paths to keep
const MaxRecentFiles = 5

// imageExtensions are the photo types the backend accepts
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// RecentFiles manages the list of recently used photo files
type RecentFiles struct {
	configDir string
	files     []string
}

type recentData struct {
	Files []string `json:"files"`
}

// New creates a RecentFiles manager with the given config directory
func New(configDir string) *RecentFiles {
	return &RecentFiles{configDir: configDir}
}

// IsImage reports whether path has an accepted photo extension
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

func (rf *RecentFiles) configFile() string {
	return filepath.Join(rf.configDir, "recent-photos.json")
}

// Load reads the recent photo list from disk, dropping entries that no
// longer exist or are not image files
func (rf *RecentFiles) Load() ([]string, error) {
	data, err := os.ReadFile(rf.configFile())
	if os.IsNotExist(err) {
		rf.files = []string{}
		return rf.files, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		rf.files = []string{}
		return rf.files, nil
	}

	rf.files = make([]string, 0, len(recent.Files))
	for _, path := range recent.Files {
		if !IsImage(path) {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			rf.files = append(rf.files, path)
		}
	}

	return rf.files, nil
}

// Save writes the recent photo list to disk, trimmed to the max
func (rf *RecentFiles) Save(files []string) error {
	if err := os.MkdirAll(rf.configDir, 0700); err != nil {
		return err
	}

	if len(files) > MaxRecentFiles {
		files = files[:MaxRecentFiles]
	}
	rf.files = files

	data, err := json.MarshalIndent(recentData{Files: files}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rf.configFile(), data, 0600)
}

// Add moves path to the front of the recent list and persists it
func (rf *RecentFiles) Add(path string) error {
	if rf.files == nil {
		if _, err := rf.Load(); err != nil {
			rf.files = []string{}
		}
	}

	newFiles := make([]string, 0, len(rf.files)+1)
	newFiles = append(newFiles, path)
	for _, f := range rf.files {
		if f != path {
			newFiles = append(newFiles, f)
		}
	}

	return rf.Save(newFiles)
}

// List returns the current recent photo paths
func (rf *RecentFiles) List() []string {
	if rf.files == nil {
		rf.Load()
	}
	return rf.files
}
