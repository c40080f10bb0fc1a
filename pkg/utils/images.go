package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/h2non/filetype"
)

// DecodeDataURL splits a data URL ("data:image/png;base64,....") into its
// media type and raw bytes. When the header is missing the bytes are decoded
// as bare base64 and the media type is sniffed from the payload.
func DecodeDataURL(dataURL string) (mimeType string, data []byte, err error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		header, rest, found := strings.Cut(dataURL, ",")
		if !found {
			err = errors.New("malformed data URL")
			slog.Info(err.Error())
			return "", nil, err
		}
		payload = rest
		mimeType = strings.TrimPrefix(header, "data:")
		mimeType = strings.TrimSuffix(mimeType, ";base64")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		err = fmt.Errorf("invalid base64 image payload: %w", err)
		slog.Info(err.Error())
		return "", nil, err
	}

	if mimeType == "" {
		kind, matchErr := filetype.Match(data)
		if matchErr != nil || kind == filetype.Unknown {
			mimeType = "application/octet-stream"
		} else {
			mimeType = kind.MIME.Value
		}
	}

	return mimeType, data, nil
}

// EncodeDataURL is the inverse of DecodeDataURL.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// ExtensionForMIME returns a file extension for the common image media types
// the generator produces.
func ExtensionForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
