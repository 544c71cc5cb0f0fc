package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/rosterboard/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch once and write the roster as html, xlsx or docx",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.client.Close()
			return renderOnce(cmd.Context(), a, format, out, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: html, xlsx or docx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

// renderOnce runs one cycle and writes the result to out, or to stdout when
// out is empty or "-". The html page is written even when the cycle fails so
// the error is visible; the cycle error is still returned. Other formats
// write nothing on failure.
func renderOnce(ctx context.Context, a *app, format, out string, stdout io.Writer) error {
	var (
		buf      bytes.Buffer
		cycleErr error
	)
	switch format {
	case "html":
		v, err := a.svc.Refresh(ctx)
		cycleErr = err
		if err := a.page.Write(&buf, v); err != nil {
			return err
		}
	case "xlsx", "docx":
		res, err := a.svc.Load(ctx)
		if err != nil {
			return err
		}
		rows := render.Rows(res.Records)
		if format == "xlsx" {
			err = render.WriteXLSX(&buf, rows, res.Summary)
		} else {
			err = render.WriteDOCX(&buf, a.title(), rows, res.Summary)
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if err := writeOutput(out, stdout, buf.Bytes()); err != nil {
		return err
	}
	return cycleErr
}

func writeOutput(path string, stdout io.Writer, data []byte) (err error) {
	if path == "" || path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
