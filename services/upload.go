package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/juho05/jobmatch/apiclient"
)

var pictureTypes = []string{"image/jpeg", "image/png", "image/gif"}

// CheckCV accepts PDF documents of at most maxSize bytes.
func CheckCV(filename string, data []byte, maxSize int64) (apiclient.Upload, error) {
	if int64(len(data)) > maxSize {
		return apiclient.Upload{}, fmt.Errorf("cv: %w: %d > %d bytes", ErrFileTooLarge, len(data), maxSize)
	}
	mtype := mimetype.Detect(data)
	if !mtype.Is("application/pdf") {
		return apiclient.Upload{}, fmt.Errorf("cv: %w: %s", ErrInvalidFileType, mtype.String())
	}
	return apiclient.Upload{
		Field:       "file",
		Filename:    uploadName(filename, "cv", ".pdf"),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// PreparePicture accepts JPEG, PNG or GIF images of at most maxSize bytes and re-encodes them
// as an auto-oriented JPEG that fits into size x size pixels.
func PreparePicture(filename string, data []byte, maxSize int64, size int) (apiclient.Upload, error) {
	if int64(len(data)) > maxSize {
		return apiclient.Upload{}, fmt.Errorf("picture: %w: %d > %d bytes", ErrFileTooLarge, len(data), maxSize)
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), pictureTypes...) {
		return apiclient.Upload{}, fmt.Errorf("picture: %w: %s", ErrInvalidFileType, mtype.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return apiclient.Upload{}, fmt.Errorf("picture: %w: %w", ErrInvalidFileType, err)
	}
	if size > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > size || bounds.Dy() > size {
			img = imaging.Fit(img, size, size, imaging.Lanczos)
		}
	}

	buf := &bytes.Buffer{}
	if err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return apiclient.Upload{}, fmt.Errorf("encode picture: %w", err)
	}
	return apiclient.Upload{
		Field:       "profile_picture",
		Filename:    uploadName(filename, "picture", ".jpg"),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}

func uploadName(filename, fallback, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = fallback
	}
	return base + ext
}
