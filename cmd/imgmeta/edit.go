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

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"seehuhn.de/go/imgmeta/image"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add FILE KEY VALUE",
		Short: "Add a metadata entry",
		Long: `Add a metadata entry to a file.  For keys which can occur only once,
the command fails if the key is already present.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, key, value := args[0], args[1], args[2]
			return a.edit(path, key, func(img *image.Image) error {
				ok, err := editor(img, key).AddString(key, value)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s: %s is already set", path, key)
				}
				return nil
			})
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE KEY VALUE...",
		Short: "Replace all entries for a key",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, key := args[0], args[1]
			return a.edit(path, key, func(img *image.Image) error {
				return editor(img, key).SetString(key, args[2:]...)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "delete FILE KEY",
		Short: "Delete a metadata entry",
		Long: `Delete the first entry for a key.  With --all, every entry for the
key is deleted.  It is an error if the key is not present.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, key := args[0], args[1]
			return a.edit(path, key, func(img *image.Image) error {
				e := editor(img, key)
				var n int
				if all {
					var err error
					n, err = e.DeleteAllString(key)
					if err != nil {
						return err
					}
				} else {
					ok, err := e.DeleteString(key)
					if err != nil {
						return err
					}
					if ok {
						n = 1
					}
				}
				if n == 0 {
					return fmt.Errorf("%s: %s not found", path, key)
				}
				klog.V(1).Infof("%s: deleted %d entries for %s", path, n, key)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete all entries for the key")
	return cmd
}

// edit reads the metadata of a file, applies change and writes the file.
func (a *app) edit(path, key string, change func(*image.Image) error) error {
	img, err := a.open(path)
	if err != nil {
		return err
	}
	err = change(img)
	if err != nil {
		return err
	}
	klog.V(1).Infof("%s: updating %s", path, key)
	return img.WriteMetadata()
}
