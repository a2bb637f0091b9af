// Command qoaenc encodes a WAV file to QOA.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mewkiz/qoa"
	"github.com/mewkiz/qoa/pcm"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: qoaenc [OPTION]... encode SRC.wav DST.qoa")
	pflag.PrintDefaults()
}

func main() {
	var force bool
	pflag.BoolVarP(&force, "force", "f", false, "overwrite an existing destination file")
	pflag.Usage = usage
	pflag.Parse()

	if pflag.NArg() != 3 || pflag.Arg(0) != "encode" {
		usage()
		os.Exit(2)
	}
	src, dst := pflag.Arg(1), pflag.Arg(2)

	if err := encode(src, dst, force); err != nil {
		log.Fatalf("%+v", err)
	}
}

func encode(src, dst string, force bool) error {
	if ext := filepath.Ext(dst); !strings.EqualFold(ext, ".qoa") {
		return errors.Errorf("destination file %q must have a .qoa extension", dst)
	}
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return errors.Errorf("destination file %q already exists; use -f to overwrite", dst)
		}
	}

	log.Printf("encoding %q to %q", src, dst)

	fr, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer fr.Close()

	wavSrc, err := pcm.NewWAVSource(fr)
	if err != nil {
		return errors.WithStack(err)
	}

	fw, err := os.Create(dst)
	if err != nil {
		return errors.WithStack(err)
	}
	defer fw.Close()

	enc, err := qoa.NewStreamingEncoder(fw)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := enc.Encode(wavSrc); err != nil {
		return errors.WithStack(err)
	}
	if err := enc.Close(); err != nil {
		return errors.WithStack(err)
	}

	log.Printf("done: %q", dst)
	return nil
}
