// seehuhn.de/go/djixt2 - metadata of DJI Zenmuse XT2 thermal images
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

// Xt2xmp prints the vendor specific XMP fields of DJI Zenmuse XT2 images as
// JSON.
//
// The input files are raw XMP packets, as extracted from the images by
// "exiftool -b -XMP image.tiff > image.xmp".
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/djixt2"
	"seehuhn.de/go/djixt2/xpacket"
)

var namespaces = map[string][]string{
	"dji":  {xpacket.NamespaceDJI},
	"flir": {xpacket.NamespaceFLIR},
	"all":  {xpacket.NamespaceDJI, xpacket.NamespaceFLIR},
}

const longHelp = `Read raw XMP packets written by the DJI Zenmuse XT2 camera and print
the fields in the drone-dji and FLIR namespaces as JSON objects.`

type options struct {
	verbose   bool
	namespace string
}

func newRootCmd() *cobra.Command {
	opt := &options{}
	cmd := &cobra.Command{
		Use:           "xt2xmp [flags] FILE...",
		Short:         "Print the XMP fields of DJI XT2 images as JSON",
		Long:          longHelp,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opt, args)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opt.verbose, "verbose", "v", false, "log progress to stderr")
	flags.StringVarP(&opt.namespace, "namespace", "n", "all", "namespaces to extract (dji, flir or all)")
	return cmd
}

func run(stdout, stderr io.Writer, opt *options, files []string) error {
	ns, ok := namespaces[opt.namespace]
	if !ok {
		return fmt.Errorf("unknown namespace %q", opt.namespace)
	}

	level := slog.LevelWarn
	if opt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	for _, fname := range files {
		logger.Debug("reading XMP packet", "file", fname)
		out, err := convertFile(fname, ns)
		if err != nil {
			return fmt.Errorf("%s: %w", fname, err)
		}
		_, err = fmt.Fprintln(stdout, out)
		if err != nil {
			return err
		}
	}
	return nil
}

func convertFile(fname string, ns []string) (string, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	fields, err := xpacket.Extract(data, ns...)
	if err != nil {
		return "", err
	}

	props := djixt2.NewProperties()
	for _, f := range fields {
		err := props.Add(f.Name, f.Value)
		if err != nil {
			return "", err
		}
	}
	return djixt2.JSON(props)
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
