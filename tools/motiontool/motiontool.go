package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/keymotion/codec"
	"github.com/mogaika/keymotion/config"
	"github.com/mogaika/keymotion/gltfmotion"
	"github.com/mogaika/keymotion/motion"
	"github.com/mogaika/keymotion/utils"
	"github.com/mogaika/keymotion/utils/gltfutils"
)

type options struct {
	gltfPath     string
	anim         int
	inPath       string
	version      uint
	outPath      string
	optimizePath string
	resample     float64
	glbPath      string
	dump         bool
	order        binary.ByteOrder
}

func load(opts *options, _l *utils.Logger) (*motion.Motion, error) {
	switch {
	case opts.gltfPath != "":
		doc, err := gltf.Open(opts.gltfPath)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to open gltf %q", opts.gltfPath)
		}
		return gltfmotion.Import(doc, opts.anim, gltfmotion.ImportOptions{Logger: _l})
	case opts.inPath != "":
		f, err := os.Open(opts.inPath)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to open motion")
		}
		defer f.Close()
		return codec.Read(f, opts.order, uint32(opts.version))
	default:
		return nil, errors.Errorf("Provide -gltf or -in source")
	}
}

func save(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(opts *options, stdout io.Writer) error {
	_l := utils.NewLogger(logrus.StandardLogger())

	m, err := load(opts, _l)
	if err != nil {
		return err
	}

	if opts.resample > 0 {
		m = m.Resample(float32(opts.resample))
		_l.Printf("resampled to %v, %d keys", opts.resample, m.NumKeys())
	}

	if opts.optimizePath != "" {
		f, err := os.Open(opts.optimizePath)
		if err != nil {
			return errors.Wrapf(err, "Failed to open optimize settings")
		}
		settings, err := motion.LoadOptimizeSettings(f)
		f.Close()
		if err != nil {
			return err
		}
		report := m.Optimize(settings, _l)
		fmt.Fprintf(stdout, "optimized: %d -> %d keys\n", report.KeysBefore, report.KeysAfter)
	}

	if err := m.Verify(); err != nil {
		var ie *motion.IntegrityError
		if errors.As(err, &ie) {
			for _, issue := range ie.Issues {
				fmt.Fprintln(stdout, issue.String())
			}
		}
		return err
	}

	if opts.dump {
		fmt.Fprint(stdout, utils.SDump(m))
	}

	if opts.outPath != "" {
		if err := save(opts.outPath, func(w io.Writer) error {
			return codec.WriteVersion(w, m, opts.order, uint32(opts.version))
		}); err != nil {
			return err
		}
	}

	if opts.glbPath != "" {
		doc, err := gltfmotion.Export(m, "motion")
		if err != nil {
			return err
		}
		if err := save(opts.glbPath, func(w io.Writer) error {
			return gltfutils.ExportBinary(w, doc)
		}); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var opts options
	var bigEndian, noScale bool
	flag.StringVar(&opts.gltfPath, "gltf", "", "Import animation from gltf or glb file")
	flag.IntVar(&opts.anim, "anim", 0, "Index of gltf animation")
	flag.StringVar(&opts.inPath, "in", "", "Read motion file")
	flag.UintVar(&opts.version, "version", codec.CurrentVersion, "Motion file format version")
	flag.StringVar(&opts.outPath, "out", "", "Write motion file")
	flag.StringVar(&opts.optimizePath, "optimize", "", "Optimize with settings from yaml file")
	flag.Float64Var(&opts.resample, "resample", 0, "Resample to rate before optimization")
	flag.StringVar(&opts.glbPath, "glb", "", "Export motion as glb")
	flag.BoolVar(&opts.dump, "dump", false, "Print motion structure")
	flag.BoolVar(&bigEndian, "bigendian", false, "Motion files use big endian byte order")
	flag.BoolVar(&noScale, "noscale", false, "Ignore scale channels")
	flag.Parse()

	config.SetByteOrder(bigEndian)
	config.SetScaleEnabled(!noScale)
	opts.order = config.ByteOrder()

	if err := run(&opts, os.Stdout); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
