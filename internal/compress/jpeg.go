package compress

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// compressJPEG re-encodes data at the given quality. The encoder does not carry
// EXIF over, so the orientation tag is applied to the pixels while decoding.
func compressJPEG(data []byte, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
