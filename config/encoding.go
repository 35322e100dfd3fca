package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultNameEncoding is encoding of channel names in motion files
const DefaultNameEncoding = "Windows 1252"

type nameEncoding struct {
	name string
	enc  encoding.Encoding
}

// UTF-8 followed by every single byte charmap
var nameEncodings = func() []nameEncoding {
	list := []nameEncoding{{name: "UTF-8", enc: unicode.UTF8}}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, nameEncoding{name: cm.String(), enc: cm})
		}
	}
	return list
}()

var currentNameEncoding = mustFindEncoding(DefaultNameEncoding)

func findEncoding(name string) (nameEncoding, bool) {
	for _, ne := range nameEncodings {
		if strings.EqualFold(ne.name, name) {
			return ne, true
		}
	}
	return nameEncoding{}, false
}

func mustFindEncoding(name string) nameEncoding {
	ne, ok := findEncoding(name)
	if !ok {
		panic(name)
	}
	return ne
}

// SetEncoding selects channel name encoding, name is case insensitive
func SetEncoding(name string) error {
	ne, ok := findEncoding(name)
	if !ok {
		return errors.Errorf("Unknown name encoding %q", name)
	}
	currentNameEncoding = ne
	return nil
}

func ListEncodings() []string {
	list := make([]string, len(nameEncodings))
	for i, ne := range nameEncodings {
		list[i] = ne.name
	}
	return list
}

func GetEncoding() encoding.Encoding {
	return currentNameEncoding.enc
}

func EncodingName() string {
	return currentNameEncoding.name
}
