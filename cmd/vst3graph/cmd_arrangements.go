package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/speaker"
)

func newArrangementsCmd() *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   "arrangements",
		Short: "Print the speaker arrangement table and check that every row round-trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if layout != "" {
				return describeLayout(cmd.OutOrStdout(), layout)
			}
			return printArrangements(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&layout, "layout", "", `encode one layout instead, e.g. "5.1" or "L R C"`)
	return cmd
}

func printArrangements(w io.Writer) error {
	if err := speaker.Validate(); err != nil {
		return fmt.Errorf("arrangement table: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tCHANNELS\tSPEAKERS\tROUND TRIP")
	failed := 0
	for _, m := range speaker.Table() {
		set := speaker.ToChannelSet(m.Code, 0)
		ok := speaker.ToArrangement(set) == m.Code
		if !ok {
			failed++
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", m.Code, m.Code, set.Size(), set.Speakers(), okString(ok))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d arrangements do not round-trip", failed)
	}
	return nil
}

func describeLayout(w io.Writer, text string) error {
	set, err := channels.Parse(text)
	if err != nil {
		return err
	}
	arr := speaker.Describe(set)
	codes := make([]string, len(arr.Speakers))
	for i, s := range arr.Speakers {
		codes[i] = fmt.Sprint(int32(s))
	}
	fmt.Fprintf(w, "layout:      %s (%s)\n", set, set.Speakers())
	fmt.Fprintf(w, "arrangement: %d %s\n", arr.Type, arr.Type)
	fmt.Fprintf(w, "speakers:    [%s]\n", strings.Join(codes, " "))
	fmt.Fprintf(w, "decoded:     %s\n", arr.ChannelSet())
	return nil
}

func okString(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
