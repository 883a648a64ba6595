package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/fs"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	d, err := deps.Downloader.Download(deps.Ctx, &docscout.DownloadRequest{URL: c.URL, FileName: c.Name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	path := c.Output
	if path == "" {
		if path, err = fs.SafeFileName(d.FileName); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
			return err
		}
	}
	if err := os.WriteFile(path, d.Data, 0644); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %s (%s, %d pages, sha256 %s)\n",
		path, docscout.FormatBytes(int64(d.Size)), d.Info.Pages, shortHash(d.ContentHash))
	return nil
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
