// Command boxctl runs the box derivation engine on a consignment state file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"outward-wms/wms/consignment"
	"outward-wms/wms/labels"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "boxctl",
		Short:         "Inspect consignment box derivation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringP("in", "i", "-", "state file ({articles, boxes}), - for stdin")

	root.AddCommand(newDeriveCmd(), newStatsCmd(), newZPLCmd())
	return root
}

func newDeriveCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the boxes derived from the articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readState(cmd)
			if err != nil {
				return err
			}
			if err := consignment.ValidateArticles(state.Articles); err != nil {
				return err
			}
			boxes := consignment.DeriveBoxes(state.Articles, state.Boxes, force)
			return writeJSON(cmd.OutOrStdout(), boxes)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "recalculate net weights and reset gross weights")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-article box counts and weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readState(cmd)
			if err != nil {
				return err
			}

			stats := consignment.ComputeBoxStats(state.Boxes, state.Articles)
			ids := make([]string, 0, len(stats))
			for id := range stats {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			w := cmd.OutOrStdout()
			for _, id := range ids {
				s := stats[id]
				fmt.Fprintf(w, "%s\t%s\t%d boxes\tnet %g g\tgross %g g\n",
					id, s.ArticleName, s.BoxCount, s.TotalNetWeight, s.TotalGrossWeight)
			}
			return nil
		},
	}
}

func newZPLCmd() *cobra.Command {
	var consignmentID string
	cmd := &cobra.Command{
		Use:   "zpl",
		Short: "Print ZPL labels for every box",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readState(cmd)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), labels.ZPL(state.Boxes, state.Articles, consignmentID))
			return err
		},
	}
	cmd.Flags().StringVar(&consignmentID, "consignment", "", "consignment id printed on the labels")
	_ = cmd.MarkFlagRequired("consignment")
	return cmd
}

func readState(cmd *cobra.Command) (consignment.Consignment, error) {
	var state consignment.Consignment

	path, _ := cmd.Flags().GetString("in")
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return state, err
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return state, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
