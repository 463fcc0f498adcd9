package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/output"
	"nathanbeddoewebdev/panelctl/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelDownloads bounds concurrent PDF requests.
const maxParallelDownloads = 4

func DownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download invoice PDFs",
		Long: `Download one or more invoice PDFs into a directory.

Examples:
  panelctl invoice download --id 1001
  panelctl invoice download --id 1001 --id 1002 --dir ~/invoices`,
		Args:         cobra.NoArgs,
		RunE:         runDownload,
		SilenceUsage: true,
	}

	cmd.Flags().StringSlice("id", nil, "Invoice ID (repeatable, required)")
	cmd.Flags().String("dir", ".", "Directory to write the files to")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	ids, _ := cmd.Flags().GetStringSlice("id")
	dir, _ := cmd.Flags().GetString("dir")
	for _, id := range ids {
		if err := util.ValidateID(id); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if len(ids) == 1 {
		cmdutil.Describe(cmd, "invoice", ids[0], "")
	}

	svc := a.Invoices()
	var mu sync.Mutex
	out := cmd.OutOrStdout()
	claimed := make(map[string]string, len(ids))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelDownloads)
	for _, id := range ids {
		g.Go(func() error {
			f, err := svc.DownloadPDF(ctx, id)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, fileName(id, f.Filename))

			mu.Lock()
			if other, ok := claimed[path]; ok {
				mu.Unlock()
				return fmt.Errorf("invoices %s and %s both resolve to %s", other, id, path)
			}
			claimed[path] = id
			mu.Unlock()

			if err := os.WriteFile(path, f.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "Saved %s (%s)\n", path, output.Bytes(len(f.Data)))
			return nil
		})
	}
	return g.Wait()
}

// fileName picks the local name for invoice id. Only the base of the
// server-sent name is used, and the id is added when the name lacks it so
// invoices served under one shared name do not overwrite each other.
func fileName(id, served string) string {
	name := filepath.Base(filepath.Clean("/" + served))
	if name == "/" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "invoice-" + id + ".pdf"
	}
	if strings.Contains(name, id) {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + id + ext
}
