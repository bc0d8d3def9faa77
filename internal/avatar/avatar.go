package avatar

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Side is the width and height every stored avatar is resized to.
const Side = 250

var ErrNotAnImage = errors.New("uploaded file is not a decodable image")

// GravatarURL derives the identicon avatar URL for a fresh signup.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=identicon&r=pg", sum, Side)
}

// Process decodes an uploaded image, resizes it to Side x Side and re-encodes
// it as JPEG for storage.
func Process(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}
	resized := imaging.Resize(img, Side, Side, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
