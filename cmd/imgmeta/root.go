// seehuhn.de/go/imgmeta - image metadata in Go
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/image"
	"seehuhn.de/go/imgmeta/xmp"
)

// app holds the state shared by all sub-commands.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfgFile string
	nsFlags []string

	cfg *config
	reg *xmp.Registry
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "imgmeta",
		Short: "Print and edit image metadata",
		Long: `Imgmeta reads and writes the Exif, IPTC and XMP metadata of JPEG
files and XMP sidecar files.

Keys are written as Exif.Image.Make, Iptc.Application2.Caption or
Xmp.dc.title.  XMP keys can also be written as dc:title.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.cfgFile)
			if err != nil {
				return err
			}
			reg, err := newRegistry(cfg, a.nsFlags)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.reg = reg
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "configuration file (default: imgmeta.yaml)")
	flags.StringArrayVar(&a.nsFlags, "ns", nil, "register an XMP namespace, as prefix=uri")

	rootCmd.AddCommand(
		newPrintCmd(a),
		newAddCmd(a),
		newSetCmd(a),
		newDeleteCmd(a),
		newNamespacesCmd(a),
	)
	return rootCmd
}

// open opens an image file and reads its metadata.  Decoding problems
// which do not stop the metadata from being read are printed as warnings.
func (a *app) open(path string) (*image.Image, error) {
	img, err := image.Open(path, image.WithRegistry(a.reg))
	if err != nil {
		return nil, err
	}
	err = img.ReadMetadata()
	if err != nil {
		return nil, err
	}
	if w := img.Warnings(); w != nil {
		fmt.Fprintf(a.errOut, "%s: warning: %s\n", path, strings.TrimSpace(w.Error()))
	}
	return img, nil
}

// stringEditor is the text based interface shared by the metadata
// containers of all dialects.
type stringEditor interface {
	AddString(key, text string) (bool, error)
	SetString(key string, texts ...string) error
	DeleteString(key string) (bool, error)
	DeleteAllString(key string) (int, error)
}

// keyFamily returns the metadata family of a key in text form.
func keyFamily(key string) imgmeta.Family {
	switch {
	case strings.HasPrefix(key, "Exif."):
		return imgmeta.Exif
	case strings.HasPrefix(key, "Iptc."):
		return imgmeta.IPTC
	default:
		return imgmeta.XMP
	}
}

// editor returns the container of img which holds the given key.
func editor(img *image.Image, key string) stringEditor {
	switch keyFamily(key) {
	case imgmeta.Exif:
		return img.ExifData()
	case imgmeta.IPTC:
		return img.IptcData()
	default:
		return img.XmpData()
	}
}
