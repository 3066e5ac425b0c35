package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/minglehq/mingle/domain"
)

// Upload is a raw file as it arrives from a client.
type Upload struct {
	Filename string
	Data     []byte
}

var ErrUnsupportedType = errors.New("only image and video files are supported")

// Resolve sniffs the upload's content type and turns it into an
// attachment with an inline data-uri source. Anything that is not an
// image or a video is rejected.
func Resolve(upload Upload) (error, *domain.MediaAttachment) {
	if len(upload.Data) == 0 {
		return ErrUnsupportedType, nil
	}

	contentType := http.DetectContentType(upload.Data)
	var kind domain.MediaKind
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind = domain.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		kind = domain.MediaVideo
	default:
		return fmt.Errorf("%w: %s is %s", ErrUnsupportedType, upload.Filename, contentType), nil
	}

	source := "data:" + contentType + ";base64," +
		base64.StdEncoding.EncodeToString(upload.Data)

	return nil, &domain.MediaAttachment{Kind: kind, Source: source}
}

// ResolveAll resolves every upload or none: the first rejected file
// fails the whole batch.
func ResolveAll(uploads []Upload) (error, []domain.MediaAttachment) {
	attachments := make([]domain.MediaAttachment, 0, len(uploads))
	for _, upload := range uploads {
		err, attachment := Resolve(upload)
		if err != nil {
			return err, nil
		}
		attachments = append(attachments, *attachment)
	}
	return nil, attachments
}
