package imagemap

import (
	"WooWithFeed/pkg/logging"
	"encoding/json"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// Entry is one uploaded image as recorded by the external media-upload job.
type Entry struct {
	MediaID    int64  `json:"media_id"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploaded_at"`
}

// Map is a read-only sku -> media lookup. The file is owned and written by the
// media-upload collaborator; this package never writes it.
type Map map[string]Entry

// Load reads the image map file. A missing file is a valid empty map: the
// media-upload job may simply not have run yet.
func Load(path string) (Map, error) {

	logger := logging.GetLogger()
	logger.Debug("ImageMap.Load:>Start")
	defer logger.Debug("ImageMap.Load:>End")

	if path == "" {
		return Map{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Infof("image map %s not found, continuing without images", path)
		return Map{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed os.ReadFile(%s)", path)
	}

	var m Map
	err = json.Unmarshal(data, &m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed json.Unmarshal() of %s", path)
	}

	logger.Debugf("image map loaded, entries: %d", len(m))
	return m, nil
}

// UploadedAt parses the entry timestamp. Formats in the file vary with the
// uploader version, so parsing is lenient and failures collapse to zero time.
func (e Entry) UploadedAtTime() time.Time {
	if e.UploadedAt == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(e.UploadedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
