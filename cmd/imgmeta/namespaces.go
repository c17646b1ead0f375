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
)

func newNamespacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List the known XMP namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, prefix := range a.reg.Prefixes() {
				ns, _ := a.reg.Resolve(prefix)
				_, err := fmt.Fprintf(a.out, "%-16s %s\n", prefix, ns)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}
