package utils

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"

	"github.com/mogaika/keymotion/config"
)

// BytesToString decodes zero terminated (or not terminated) string in current name encoding
func BytesToString(bs []byte) (string, error) {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		return "", errors.Wrapf(err, "Failed to decode %q as %v", bs[0:n], config.EncodingName())
	}
	return string(s), nil
}

// StringToBytes encodes string in current name encoding without terminator
func StringToBytes(s string) ([]byte, error) {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode %q as %v", s, config.EncodingName())
	}
	return bs, nil
}
