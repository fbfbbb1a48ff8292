// Package archive keeps a verbatim copy of every upload, partitioned by
// upload kind, so failed uploads remain inspectable.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// KindCrash is the partition for crash dumps.
const KindCrash = "crashes"

// Key identifies one archived upload.
type Key struct {
	Kind     string // upload subtype, e.g. "multi", or KindCrash
	Filename string // client supplied; reduced to a base name
	Time     time.Time
}

// Path returns the slash-separated location of the upload.
// Stats uploads are stored as <kind>/<filename>_<unix millis>; crash dumps
// keep their original name under crashes/.
func (k Key) Path() string {
	kind := cleanSegment(k.Kind, "unknown")
	name := cleanSegment(k.Filename, "upload")
	if kind == KindCrash {
		return kind + "/" + name
	}
	return fmt.Sprintf("%s/%s_%d", kind, name, k.Time.UnixMilli())
}

// cleanSegment reduces s to a single safe path element.
func cleanSegment(s, fallback string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." || s == "/" {
		return fallback
	}
	return s
}

// Store persists archived uploads.
type Store interface {
	Put(ctx context.Context, key Key, data []byte) error
}

// Pruner is implemented by stores that can expire old archives themselves.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int, error)
}
