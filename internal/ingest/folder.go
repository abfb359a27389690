package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/k5602/course-pilot/internal/contract"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".mov":  true,
}

// ScanFolder walks a directory recursively and builds an ingestion payload
// from the video files it finds, in lexical path order. Titles come from
// the filename stem; durations are unknown at scan time.
func ScanFolder(root, name string) (contract.IngestedCourse, error) {
	info, err := os.Stat(root)
	if err != nil {
		return contract.IngestedCourse{}, err
	}

	var paths []string
	if !info.IsDir() {
		if !isVideoFile(root) {
			return contract.IngestedCourse{}, fmt.Errorf("%s is not a video file", root)
		}
		paths = []string{root}
	} else {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isVideoFile(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return contract.IngestedCourse{}, fmt.Errorf("scanning %s: %w", root, err)
		}
	}
	if len(paths) == 0 {
		return contract.IngestedCourse{}, fmt.Errorf("no video files found under %s", root)
	}
	sort.Strings(paths)

	if name == "" {
		name = filepath.Base(strings.TrimRight(root, string(filepath.Separator)))
	}

	videos := make([]contract.IngestedVideo, len(paths))
	for i, path := range paths {
		videos[i] = contract.IngestedVideo{
			Title:         titleFromPath(path),
			SourceID:      path,
			OriginalIndex: i,
			IsLocal:       true,
		}
	}
	return contract.IngestedCourse{Name: name, Videos: videos}, nil
}

func isVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// titleFromPath turns "03_intro-to-joins.mp4" into "03 intro to joins".
func titleFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Untitled"
	}
	return stem
}
