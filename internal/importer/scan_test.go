// internal/importer/scan_test.go
package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFindAudioFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "B", "02.mp3"))
	touch(t, filepath.Join(root, "B", "01.mp3"))
	touch(t, filepath.Join(root, "A", "01.flac"))
	touch(t, filepath.Join(root, "A", "cover.jpg"))
	touch(t, filepath.Join(root, ".hidden", "01.mp3"))

	files, err := FindAudioFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "A", "01.flac"),
		filepath.Join(root, "B", "01.mp3"),
		filepath.Join(root, "B", "02.mp3"),
	}, files)
}

func TestFindAudioFiles_SingleFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "song.ogg")
	touch(t, path)

	files, err := FindAudioFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindAudioFiles_Missing(t *testing.T) {
	_, err := FindAudioFiles("/nonexistent/music/dir")
	assert.True(t, errors.Is(err, ErrNoSuchPath))
}

func TestGroupTasks_Albums(t *testing.T) {
	files := []string{"/in/B/2.mp3", "/in/A/1.mp3", "/in/B/1.mp3"}

	tasks := groupTasks(files, false)
	require.Len(t, tasks, 2)
	assert.Equal(t, "/in/A", tasks[0].dir)
	assert.Equal(t, []string{"/in/A/1.mp3"}, tasks[0].files)
	assert.Equal(t, "/in/B", tasks[1].dir)
	assert.Equal(t, []string{"/in/B/1.mp3", "/in/B/2.mp3"}, tasks[1].files)
}

func TestGroupTasks_Singletons(t *testing.T) {
	files := []string{"/in/B/2.mp3", "/in/A/1.mp3", "/in/B/1.mp3"}

	tasks := groupTasks(files, true)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"/in/A/1.mp3"}, tasks[0].files)
	assert.Equal(t, []string{"/in/B/1.mp3"}, tasks[1].files)
	assert.Equal(t, []string{"/in/B/2.mp3"}, tasks[2].files)
}
