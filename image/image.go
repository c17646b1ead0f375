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

// Package image reads and writes the metadata of image files.
//
// Supported are JPEG files, which can hold Exif, IPTC and XMP data, and XMP
// sidecar files.  A typical use looks like this:
//
//	img, err := image.Open("photo.jpg")
//	if err != nil { ... }
//	err = img.ReadMetadata()
//	if err != nil { ... }
//	_, err = img.IptcData().AddString("Iptc.Application2.Caption", "A caption")
//	if err != nil { ... }
//	err = img.WriteMetadata()
package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/exif"
	"seehuhn.de/go/imgmeta/iptc"
	"seehuhn.de/go/imgmeta/xmp"
)

// Image is an image file together with its metadata.
//
// The metadata containers are owned by the Image.  An Image must not be
// used concurrently.
type Image struct {
	path string
	c    Container

	reg   *xmp.Registry
	order binary.ByteOrder

	exif *exif.Data
	iptc *iptc.Data
	xmp  *xmp.Data

	// orig holds the encoding of each container as it was when read or
	// created.  Containers which still encode to these bytes are not
	// written back, so that their blocks stay unchanged in the file.
	orig map[imgmeta.Family][]byte

	warnings *multierror.Error
}

// Option configures an Image.
type Option func(*Image)

// WithRegistry sets the XMP namespace registry used for the image.
// By default, every image uses a new registry.
func WithRegistry(reg *xmp.Registry) Option {
	return func(img *Image) {
		img.reg = reg
	}
}

// WithByteOrder sets the byte order for new Exif data.  Exif data read
// from a file keeps the byte order of the file.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(img *Image) {
		img.order = order
	}
}

// Open opens an image file.  The metadata is not decoded until
// ReadMetadata is called.
func Open(path string, opts ...Option) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(err)
	}
	c, err := newContainer(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	klog.V(1).Infof("opened %s (%d bytes, %T)", path, len(data), c)
	return New(path, c, opts...), nil
}

// New returns an Image for the given container.  The path is used by
// WriteMetadata.
func New(path string, c Container, opts ...Option) *Image {
	img := &Image{
		path:  path,
		c:     c,
		order: binary.LittleEndian,
		orig:  make(map[imgmeta.Family][]byte),
	}
	for _, opt := range opts {
		opt(img)
	}
	if img.reg == nil {
		img.reg = xmp.NewRegistry()
	}
	return img
}

func ioError(err error) error {
	return fmt.Errorf("%w: %w", imgmeta.ErrIO, err)
}

// Path returns the file name of the image.
func (img *Image) Path() string {
	return img.path
}

// Registry returns the XMP namespace registry of the image.
func (img *Image) Registry() *xmp.Registry {
	return img.reg
}

// ReadMetadata decodes the metadata blocks of the file.
//
// A block which cannot be decoded does not stop the other blocks from
// being read.  Such problems, and non-fatal problems inside a block, are
// reported by [Image.Warnings].  The containers for blocks which could not
// be decoded are empty.  ReadMetadata returns an error only if none of the
// blocks present in the file could be decoded.
func (img *Image) ReadMetadata() error {
	img.warnings = nil
	img.exif = nil
	img.iptc = nil
	img.xmp = nil
	img.orig = make(map[imgmeta.Family][]byte)

	var present, failed int
	var errs *multierror.Error
	for _, f := range imgmeta.Families {
		block := img.c.Block(f)
		if len(block) == 0 {
			klog.V(2).Infof("%s: no %s block", img.path, f)
			continue
		}
		present++
		klog.V(2).Infof("%s: decoding %d bytes of %s data", img.path, len(block), f)

		var err error
		switch f {
		case imgmeta.Exif:
			img.exif, err = exif.Decode(block)
		case imgmeta.IPTC:
			img.iptc, err = iptc.Decode(block)
		case imgmeta.XMP:
			img.xmp, err = xmp.Decode(img.reg, block)
		}
		if err != nil {
			klog.V(1).Infof("%s: %v", img.path, err)
			errs = multierror.Append(errs, err)
		}
		if img.decoded(f) {
			if enc, _, err := img.encode(f); err == nil {
				img.orig[f] = enc
			}
			continue
		}
		failed++
	}
	img.warnings = errs

	if present > 0 && failed == present {
		return fmt.Errorf("%s: no metadata could be decoded: %w", img.path, errs.Errors[0])
	}
	return nil
}

// decoded reports whether a container for f exists.
func (img *Image) decoded(f imgmeta.Family) bool {
	switch f {
	case imgmeta.Exif:
		return img.exif != nil
	case imgmeta.IPTC:
		return img.iptc != nil
	default:
		return img.xmp != nil
	}
}

// Warnings returns the problems found by the last call to ReadMetadata,
// or nil if there were none.  The error text lists all problems.
func (img *Image) Warnings() error {
	return img.warnings.ErrorOrNil()
}

// ExifData returns the Exif metadata of the image.  If no Exif data has
// been read, an empty container is returned.
func (img *Image) ExifData() *exif.Data {
	if img.exif == nil {
		img.exif = exif.New()
		img.exif.ByteOrder = img.order
		img.orig[imgmeta.Exif] = nil
	}
	return img.exif
}

// IptcData returns the IPTC metadata of the image.  If no IPTC data has
// been read, an empty container is returned.
func (img *Image) IptcData() *iptc.Data {
	if img.iptc == nil {
		img.iptc = iptc.New()
		img.orig[imgmeta.IPTC] = nil
	}
	return img.iptc
}

// XmpData returns the XMP metadata of the image.  If no XMP data has been
// read, an empty container is returned.
func (img *Image) XmpData() *xmp.Data {
	if img.xmp == nil {
		img.xmp = xmp.New(img.reg)
		img.orig[imgmeta.XMP] = nil
	}
	return img.xmp
}

// WriteMetadata encodes the metadata containers and writes the file.
//
// Only containers which have been changed since they were read by
// ReadMetadata, or created by ExifData, IptcData or XmpData, are written.
// The blocks of all other containers are left byte for byte unchanged.
// Containers which have been emptied remove the corresponding block from
// the file.
//
// The file is replaced atomically, by writing a temporary file in the same
// directory and renaming it.
func (img *Image) WriteMetadata() error {
	for _, f := range imgmeta.Families {
		block, ok, err := img.encode(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if orig, seen := img.orig[f]; seen && bytes.Equal(orig, block) {
			klog.V(2).Infof("%s: %s data unchanged", img.path, f)
			continue
		}
		klog.V(2).Infof("%s: writing %d bytes of %s data", img.path, len(block), f)
		if err := img.c.SetBlock(f, block); err != nil {
			return fmt.Errorf("%s: %w", img.path, err)
		}
		img.orig[f] = block
	}

	data, err := img.c.Bytes()
	if err != nil {
		return fmt.Errorf("%s: %w", img.path, err)
	}
	err = writeFile(img.path, data)
	if err != nil {
		return err
	}
	klog.V(1).Infof("wrote %s (%d bytes)", img.path, len(data))
	return nil
}

// encode returns the new block for the metadata family f.  If the
// container for f does not exist, ok is false.
func (img *Image) encode(f imgmeta.Family) (block []byte, ok bool, err error) {
	switch f {
	case imgmeta.Exif:
		if img.exif == nil {
			return nil, false, nil
		}
		if img.exif.Len() == 0 && len(img.exif.Thumbnail) == 0 {
			return nil, true, nil
		}
		block, err = exif.Encode(img.exif)
	case imgmeta.IPTC:
		if img.iptc == nil {
			return nil, false, nil
		}
		if img.iptc.Len() == 0 {
			return nil, true, nil
		}
		block, err = iptc.Encode(img.iptc)
	case imgmeta.XMP:
		if img.xmp == nil {
			return nil, false, nil
		}
		if img.xmp.Len() == 0 {
			return nil, true, nil
		}
		block, err = xmp.Encode(img.xmp)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", img.path, err)
	}
	return block, true, nil
}

// writeFile replaces the file at path with data.
func writeFile(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return ioError(err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		return ioError(err)
	}
	err = tmp.Chmod(mode)
	if err != nil {
		tmp.Close()
		return ioError(err)
	}
	err = tmp.Close()
	if err != nil {
		return ioError(err)
	}
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return ioError(err)
	}
	return nil
}
