// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Command kitti downloads and checks the KITTI dataset trees used by this
// module.
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/gomlx/kitti/depthcompletion"
	"github.com/gomlx/kitti/raw"
)

type args struct {
	Download *downloadCmd `arg:"subcommand:download" help:"download and scaffold a dataset"`
	Check    *checkCmd    `arg:"subcommand:check" help:"verify the layout of a downloaded dataset"`
}

type downloadCmd struct {
	Dataset string   `arg:"positional,required" help:"sync_rectified, depth_completion or depth_prediction"`
	Path    string   `arg:"positional,required" help:"root directory to populate"`
	Drives  []string `help:"for sync_rectified: drives to fetch, e.g. 2011_09_26_drive_0002_sync"`
}

type checkCmd struct {
	Dataset string `arg:"positional,required" help:"sync_rectified, depth_completion or depth_prediction"`
	Path    string `arg:"positional,required" help:"root directory to verify"`
}

func (args) Description() string {
	return "Fetches the KITTI raw recordings and depth benchmark archives,\n" +
		"scaffolding them into the directory layout the datasets expect.\n"
}

func main() {
	var cli args
	parser := arg.MustParse(&cli)
	var err error
	switch {
	case cli.Download != nil:
		err = runDownload(parser, cli.Download)
	case cli.Check != nil:
		err = runCheck(parser, cli.Check)
	default:
		parser.WriteHelp(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "kitti: %+v\n", err)
		os.Exit(1)
	}
}

func runDownload(parser *arg.Parser, cmd *downloadCmd) error {
	switch cmd.Dataset {
	case "sync_rectified":
		if len(cmd.Drives) == 0 {
			parser.Fail("sync_rectified needs --drives: the full dataset is about 170GB, " +
				"list the drives you want explicitly")
		}
		return raw.DownloadDrives(cmd.Path, cmd.Drives)
	case "depth_completion", "depth_prediction":
		// Both benchmarks share one distribution.
		return depthcompletion.Download(cmd.Path)
	default:
		parser.Fail(fmt.Sprintf("unknown dataset %q", cmd.Dataset))
	}
	return nil
}

func runCheck(parser *arg.Parser, cmd *checkCmd) error {
	var ok bool
	switch cmd.Dataset {
	case "sync_rectified":
		ok = raw.CheckLayout(cmd.Path)
	case "depth_completion", "depth_prediction":
		ok = depthcompletion.CheckFolders(cmd.Path)
	default:
		parser.Fail(fmt.Sprintf("unknown dataset %q", cmd.Dataset))
	}
	if !ok {
		return fmt.Errorf("%s layout check failed for %q", cmd.Dataset, cmd.Path)
	}
	fmt.Printf("%s layout at %q looks complete\n", cmd.Dataset, cmd.Path)
	return nil
}
