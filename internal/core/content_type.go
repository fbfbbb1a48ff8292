package core

import (
	"errors"
	"mime"
	"strings"
)

// ContentTypePrefix precedes the subtype in every stats upload content type.
const ContentTypePrefix = "application/x-halo3-"

// SubtypeMulti marks a multiplayer game-results container, the only subtype
// that is decoded. Other subtypes are archived as received.
const SubtypeMulti = "multi"

// ErrUnrecognizedUpload is returned for content types outside the
// application/x-halo3-* family.
var ErrUnrecognizedUpload = errors.New("unrecognized upload type")

// ParseContentType extracts the upload subtype from a content type such as
// "application/x-halo3-multi". Media type parameters are ignored and the
// result is lower case. The subtype is used as an archive partition name, so
// only [a-z0-9_-] are accepted.
func ParseContentType(ct string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", ErrUnrecognizedUpload
	}

	subtype, ok := strings.CutPrefix(mediaType, ContentTypePrefix)
	if !ok || subtype == "" {
		return "", ErrUnrecognizedUpload
	}
	for _, r := range subtype {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return "", ErrUnrecognizedUpload
		}
	}
	return subtype, nil
}
