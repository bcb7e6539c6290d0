package imagemap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	Assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "images.json")
	content := `{
		"AB-100": {"media_id": 41, "url": "https://shop.example.com/wp-content/ab100.jpg", "uploaded_at": "2023-04-01T10:00:00Z"},
		"CD-200": {"media_id": 42, "url": "https://shop.example.com/wp-content/cd200.jpg", "uploaded_at": "2023/04/01 10:00"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := Load(path)
	Assert.NoError(err)
	Assert.Len(m, 2)
	Assert.Equal(int64(41), m["AB-100"].MediaID)
	Assert.Equal(int64(0), m["ZZ-999"].MediaID)

	Assert.Equal(2023, m["AB-100"].UploadedAtTime().Year())
	Assert.False(m["CD-200"].UploadedAtTime().IsZero())
}

func TestLoadMissingFile(t *testing.T) {
	Assert := assert.New(t)

	m, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	Assert.NoError(err)
	Assert.Empty(m)

	m, err = Load("")
	Assert.NoError(err)
	Assert.Empty(m)
}

func TestLoadMalformed(t *testing.T) {
	Assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	Assert.Error(err)
}

func TestUploadedAtUnparseable(t *testing.T) {
	Assert := assert.New(t)

	e := Entry{UploadedAt: "sometime last week"}
	Assert.True(e.UploadedAtTime().IsZero())
}
