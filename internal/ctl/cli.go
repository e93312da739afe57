// Package ctl implements vitrinectl, the command-line companion of the
// vitrine server: it builds payloads and links, decodes them, and checks
// what a running server renders.
package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/vitrine/internal/domain/payload"
	"github.com/okian/vitrine/pkg/logger"
)

// NewRootCommand builds the vitrinectl command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	cfg := &Config{Out: out, Err: errOut}

	root := &cobra.Command{
		Use:           "vitrinectl",
		Short:         "Build, inspect and check vitrine profile links",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cfg.Err)); err != nil {
				return err
			}
			if cfg.Verbose {
				return logger.SetLevelString("debug")
			}
			return logger.SetLevelString("warn")
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Param, "param", payload.DefaultParam, "query parameter carrying the payload")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEncodeCommand(cfg), newDecodeCommand(cfg), newCheckCommand(cfg))
	return root
}

func newEncodeCommand(cfg *Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a JSON or YAML profile into a payload",
		Long: `Reads a profile object from file (or stdin when file is absent or "-")
and prints its URL-safe payload. With --url the page link is printed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			format := strings.ToLower(cfg.Format)
			if format == "" {
				format = DetectFormat(name, data)
			}
			rec, err := ReadProfile(bytes.NewReader(data), format)
			if err != nil {
				return err
			}
			res, err := Encode(cfg, rec)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cfg.Out, res)
			}
			fmt.Fprintln(cfg.Out, res.Payload)
			if res.URL != "" {
				fmt.Fprintln(cfg.Out, res.URL)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Format, "format", "", "input format: json or yaml (default: from extension or content)")
	f.StringVar(&cfg.BaseURL, "url", "", "base URL of the server; prints the page link when set")
	f.StringVar(&cfg.Skin, "skin", "", "skin of the page link")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newDecodeCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload|url>",
		Short: "Decode a payload or page URL into pretty JSON",
		Long: `Decodes strictly: unlike the server, which falls back to the default
profile, a malformed payload is reported with the reason.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rec, err := Decode(cfg, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cfg.Out, rec)
		},
	}
}

func newCheckCommand(cfg *Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <url>...",
		Short: "Fetch rendered pages and print their slot values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := NewChecker(cfg, logger.Get())
			if err != nil {
				return err
			}
			reports := checker.CheckAll(cmd.Context(), args)
			if asJSON {
				err = writeJSON(cfg.Out, reports)
			} else {
				err = writeReports(cfg.Out, reports)
			}
			if err != nil {
				return err
			}
			return failures(reports)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Skin, "skin", "", "skin of the pages (default: from the URL path)")
	f.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	f.IntVar(&cfg.Workers, "workers", DefaultWorkers, "concurrent page fetches")
	f.BoolVar(&asJSON, "json", false, "print reports as JSON")
	return cmd
}

// Execute runs the command tree against the process streams.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeReports(w io.Writer, reports []Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\n", r.URL)
		if r.Err != "" {
			fmt.Fprintf(tw, "  error\t%s\n", r.Err)
			continue
		}
		fmt.Fprintf(tw, "  status\t%d\n", r.Status)
		fmt.Fprintf(tw, "  skin\t%s\n", r.Skin)
		fmt.Fprintf(tw, "  request id\t%s\n", r.RequestID)
		fmt.Fprintf(tw, "  duration\t%s\n", r.Duration)
		for _, s := range r.Slots {
			state := ""
			if s.Hidden {
				state = "hidden"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Name, truncate(s.Text, maxSlotText), state)
		}
		if len(r.Missing) > 0 {
			fmt.Fprintf(tw, "  missing\t%s\n", strings.Join(r.Missing, ", "))
		}
	}
	return tw.Flush()
}

// failures turns fetch errors and 5xx responses into a command error.
func failures(reports []Report) error {
	n := 0
	for _, r := range reports {
		if r.Err != "" || r.Status >= 500 {
			n++
		}
	}
	if n > 0 {
		return fmt.Errorf("%w: %d of %d pages", ErrCheck, n, len(reports))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
