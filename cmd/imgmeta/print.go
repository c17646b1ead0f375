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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/karrick/godirwalk"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/image"
)

// formats lists the output formats of the print command.
var formats = map[string]func(io.Writer, []fileRecord) error{
	"text": writeText,
	"json": writeJSON,
	"yaml": writeYAML,
}

var dialectNames = map[string]imgmeta.Family{
	"exif": imgmeta.Exif,
	"iptc": imgmeta.IPTC,
	"xmp":  imgmeta.XMP,
}

const defaultInclude = "**/*.{jpg,jpeg,JPG,JPEG,xmp,XMP}"

type fileRecord struct {
	File    string        `json:"file" yaml:"file"`
	Entries []entryRecord `json:"entries" yaml:"entries"`
}

type entryRecord struct {
	Key   string `json:"key" yaml:"key"`
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
	Value string `json:"value" yaml:"value"`
}

type printOptions struct {
	recursive bool
	include   string
	dialects  []string
	format    string
}

func newPrintCmd(a *app) *cobra.Command {
	opt := &printOptions{}
	cmd := &cobra.Command{
		Use:   "print PATH...",
		Short: "Print the metadata of image files",
		Long: `Print the metadata of image files.  With -r, directories are searched
for image files whose path, relative to the directory, matches the
--include pattern.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opt.format = a.cfg.Format
			}
			return a.print(opt, args)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opt.recursive, "recursive", "r", false, "search directories recursively")
	flags.StringVar(&opt.include, "include", defaultInclude, "glob pattern for files found by -r")
	flags.StringSliceVar(&opt.dialects, "dialect", nil, "only print the given dialects (exif, iptc, xmp)")
	flags.StringVar(&opt.format, "format", "text", "output format (text, json, yaml)")
	return cmd
}

func (a *app) print(opt *printOptions, args []string) error {
	write, ok := formats[opt.format]
	if !ok {
		return fmt.Errorf("invalid output format %q", opt.format)
	}
	if !doublestar.ValidatePattern(opt.include) {
		return fmt.Errorf("invalid --include pattern %q", opt.include)
	}
	families, err := selectFamilies(opt.dialects)
	if err != nil {
		return err
	}

	var files []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("%w: %w", imgmeta.ErrIO, err)
		}
		if !fi.IsDir() {
			files = append(files, arg)
			continue
		}
		if !opt.recursive {
			return fmt.Errorf("%s is a directory (use -r)", arg)
		}
		found, err := findImages(arg, opt.include)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	var records []fileRecord
	failed := 0
	for _, path := range files {
		img, err := a.open(path)
		if err != nil {
			fmt.Fprintf(a.errOut, "%v\n", err)
			failed++
			continue
		}
		records = append(records, fileRecord{
			File:    path,
			Entries: collect(img, families),
		})
	}

	err = write(a.out, records)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(files))
	}
	return nil
}

func selectFamilies(names []string) ([]imgmeta.Family, error) {
	if len(names) == 0 {
		return imgmeta.Families, nil
	}
	var res []imgmeta.Family
	for _, name := range names {
		f, ok := dialectNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown dialect %q", name)
		}
		res = append(res, f)
	}
	return res, nil
}

// findImages returns the files below root which match the include
// pattern.  Hidden files and directories are skipped.
func findImages(root, include string) ([]string, error) {
	var found []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && strings.HasPrefix(de.Name(), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			ok, err := doublestar.Match(include, filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			if ok {
				klog.V(2).Infof("found %s", path)
				found = append(found, path)
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imgmeta.ErrIO, err)
	}
	return found, nil
}

func collect(img *image.Image, families []imgmeta.Family) []entryRecord {
	res := []entryRecord{}
	for _, f := range families {
		switch f {
		case imgmeta.Exif:
			res = appendRecords(res, img.ExifData().Metadata)
		case imgmeta.IPTC:
			res = appendRecords(res, img.IptcData().Metadata)
		case imgmeta.XMP:
			res = appendRecords(res, img.XmpData().Metadata)
		}
	}
	return res
}

func appendRecords[K imgmeta.Key](res []entryRecord, m *imgmeta.Metadata[K]) []entryRecord {
	for k, v := range m.All() {
		res = append(res, entryRecord{
			Key:   k.String(),
			Type:  v.TypeID().String(),
			Count: v.Count(),
			Value: v.String(),
		})
	}
	return res
}

func writeText(w io.Writer, records []fileRecord) error {
	for i, r := range records {
		if len(records) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", r.File)
		}
		for _, e := range r.Entries {
			_, err := fmt.Fprintf(w, "%-44s %-10s %4d  %s\n", e.Key, e.Type, e.Count, e.Value)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, records []fileRecord) error {
	if records == nil {
		records = []fileRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeYAML(w io.Writer, records []fileRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(records)
	if err != nil {
		return err
	}
	return enc.Close()
}
