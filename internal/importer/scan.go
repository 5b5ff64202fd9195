// internal/importer/scan.go
package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// audioExtensions lists the file extensions treated as importable audio.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".aiff": true,
	".wma":  true,
	".alac": true,
	".ape":  true,
}

// IsAudioFile reports whether path has an audio file extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// scanTask is one unit of import work before tags are read: a directory of files
// (album mode) or a single file (singleton mode).
type scanTask struct {
	dir   string
	files []string
}

// FindAudioFiles returns all audio files under root in lexical order.
// A root that is itself a file is returned as-is when it is audio.
func FindAudioFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchPath, root)
	}
	if !info.IsDir() {
		if IsAudioFile(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return files, nil
}

// groupTasks builds sorted tasks from files. In album mode files are grouped by
// their parent directory; in singleton mode every file is its own task.
func groupTasks(files []string, singletons bool) []scanTask {
	if singletons {
		tasks := make([]scanTask, 0, len(files))
		for _, f := range files {
			tasks = append(tasks, scanTask{dir: filepath.Dir(f), files: []string{f}})
		}
		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].files[0] < tasks[j].files[0] })
		return tasks
	}

	byDir := make(map[string][]string)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], f)
	}
	sort.Strings(dirs)

	tasks := make([]scanTask, 0, len(dirs))
	for _, dir := range dirs {
		files := byDir[dir]
		sort.Strings(files)
		tasks = append(tasks, scanTask{dir: dir, files: files})
	}
	return tasks
}
