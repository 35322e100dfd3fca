package main

import (
	"flag"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mogaika/keymotion/config"
	"github.com/mogaika/keymotion/library"
	"github.com/mogaika/keymotion/web"
)

func main() {
	var addr, dir, webPath, encoding string
	var bigEndian, noScale, verbose bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to directory with .motion files")
	flag.StringVar(&webPath, "web", "", "Path to static web data, not served when empty")
	flag.BoolVar(&bigEndian, "bigendian", false, "Motion files use big endian byte order")
	flag.StringVar(&encoding, "encoding", "", "Encoding of channel names, one of: "+strings.Join(config.ListEncodings(), ", "))
	flag.BoolVar(&noScale, "noscale", false, "Ignore scale channels")
	flag.BoolVar(&verbose, "v", false, "Debug logging")
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if dir == "" {
		flag.PrintDefaults()
		return
	}

	config.SetByteOrder(bigEndian)
	config.SetScaleEnabled(!noScale)
	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			logrus.Fatal(err)
		}
	}

	lib, err := library.Open(dir, config.ByteOrder())
	if err != nil {
		logrus.Fatal(err)
	}

	if err := web.StartServer(addr, lib, webPath); err != nil {
		logrus.Fatal(err)
	}
}
