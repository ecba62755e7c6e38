package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidon254/internal/params"
)

func (c *cli) newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Generate and inspect constants tables",
	}
	cmd.AddCommand(c.newParamsExportCmd())
	cmd.AddCommand(c.newParamsCheckCmd())
	return cmd
}

func (c *cli) newParamsExportCmd() *cobra.Command {
	var widthsFlag, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Derive constants with the Grain LFSR and write them as a JSON table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			widths, err := parseWidths(widthsFlag)
			if err != nil {
				return err
			}
			table, err := params.ExportTable(params.GrainSource{}, widths...)
			if err != nil {
				return err
			}
			if out == "" {
				if _, err := table.WriteTo(cmd.OutOrStdout()); err != nil {
					return err
				}
			} else if err := writeTableFile(table, out); err != nil {
				return err
			}
			c.log.Info().Ints("widths", widths).Str("fingerprint", table.Fingerprint()).Msg("table exported")
			return nil
		},
	}
	cmd.Flags().StringVar(&widthsFlag, "widths", fmt.Sprintf("%d-%d", params.MinWidth, params.MaxWidth), "widths to export, e.g. 2-5 or 3,5,9")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	return cmd
}

func (c *cli) newParamsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <table.json>",
		Short: "Verify a JSON table's fingerprint and parse every width",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := params.LoadTableFile(args[0])
			if err != nil {
				return err
			}
			reg := params.NewRegistry(table)
			for _, w := range table.Widths() {
				p, err := reg.For(w)
				if err != nil {
					return err
				}
				c.log.Info().Int("width", w).Int("rounds", p.Rounds()).Int("constants", len(p.RoundConstants)).Msg("width ok")
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.Fingerprint())
			return nil
		},
	}
}

// writeTableFile writes table to path and reports errors from closing the file.
func writeTableFile(table *params.Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = table.WriteTo(f)
	return err
}

// parseWidths accepts "a-b" ranges and comma separated lists of widths in
// [params.MinWidth, params.MaxWidth].
func parseWidths(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := parseWidth(lo)
		if err != nil {
			return nil, fmt.Errorf("bad width %q: %w", part, err)
		}
		b := a
		if isRange {
			if b, err = parseWidth(hi); err != nil {
				return nil, fmt.Errorf("bad width range %q: %w", part, err)
			}
			if b < a {
				return nil, fmt.Errorf("bad width range %q", part)
			}
		}
		for w := a; w <= b; w++ {
			out = append(out, w)
		}
	}
	return out, nil
}

func parseWidth(s string) (int, error) {
	w, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if w < params.MinWidth || w > params.MaxWidth {
		return 0, fmt.Errorf("width %d outside [%d, %d]: %w", w, params.MinWidth, params.MaxWidth, params.ErrUnsupportedWidth)
	}
	return w, nil
}
