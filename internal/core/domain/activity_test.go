package domain

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMode_String(t *testing.T) {
	assert.Equal(t, "edit", ModeEditOnly.String())
	assert.Equal(t, "upload", ModeEditAndUpload.String())
	assert.Equal(t, "mark-processed", ModeMarkProcessed.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestIsActivityFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ride.fit", true},
		{"RIDE.FIT", true},
		{"dir/ride.Fit", true},
		{"ride_modified.fit", false},
		{"ride-modified.fit", false},
		{".hidden.fit", false},
		{"ride.fit.tmp", false},
		{"notes.txt", false},
		{"fit", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActivityFile(tt.name))
		})
	}
}

func TestModifiedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("rides", "a_modified.fit"), ModifiedPath(filepath.Join("rides", "a.fit")))
	assert.Equal(t, filepath.Join("rides", "B_modified.fit"), ModifiedPath(filepath.Join("rides", "B.FIT")))
}

func TestRelativePath(t *testing.T) {
	dir := t.TempDir()

	t.Run("absolute path under dir", func(t *testing.T) {
		assert.Equal(t, "a.fit", RelativePath(dir, filepath.Join(dir, "a.fit")))
	})

	t.Run("nested path", func(t *testing.T) {
		assert.Equal(t, "sub/a.fit", RelativePath(dir, filepath.Join(dir, "sub", "a.fit")))
	})

	t.Run("already relative", func(t *testing.T) {
		assert.Equal(t, "a.fit", RelativePath(".", "a.fit"))
	})

	t.Run("leading separators trimmed", func(t *testing.T) {
		assert.Equal(t, "a.fit", RelativePath(dir, "/a.fit/"))
	})
}

func TestBatchReport_Add(t *testing.T) {
	r := &BatchReport{}

	r.Add(FileResult{Path: "a.fit", State: FileUploaded})
	r.Add(FileResult{Path: "b.fit", State: FileUploaded, Conflict: true})
	r.Add(FileResult{Path: "c.fit", State: FileFailed, Err: errors.New("boom")})
	r.Add(FileResult{Path: "d.fit", State: FileSkipped})
	r.Add(FileResult{Path: "e.fit", State: FileRewritten})

	assert.Equal(t, 3, r.Rewritten)
	assert.Equal(t, 2, r.Uploaded)
	assert.Equal(t, 1, r.Conflicts)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	assert.Len(t, r.Files, 5)
}

func TestBatchReport_Duration(t *testing.T) {
	start := time.Now()
	r := &BatchReport{StartedAt: start}
	assert.Equal(t, time.Duration(0), r.Duration())

	r.EndedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, r.Duration())
}
