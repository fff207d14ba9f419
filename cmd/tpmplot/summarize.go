package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqlab/tpmplot/internal/counts"
	"github.com/seqlab/tpmplot/internal/geneindex"
	"github.com/seqlab/tpmplot/internal/loader"
	"github.com/seqlab/tpmplot/internal/output"
	"github.com/seqlab/tpmplot/internal/profile"
)

func newSummarizeCmd() *cobra.Command {
	var (
		sensePath     string
		antisensePath string
		genesFlag     string
		mode          string
		format        string
		outputFile    string
		top           int
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Aggregate expression into per-condition mean ± SD points",
		Example: `  tpmplot summarize --sense sense_counts.tsv --genes locus1,locus2
  tpmplot summarize --sense s.tsv --antisense as.tsv --mode both --genes g1 -f json
  tpmplot summarize --sense sense_counts.tsv --top 5 -o profile.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			sense := counts.ParseString(loader.ReadOptional(sensePath, logger))
			antisense := counts.ParseString(loader.ReadOptional(antisensePath, logger))
			if sense == nil && antisense == nil {
				return fmt.Errorf("no count data loaded")
			}

			sel := geneindex.NewSelection()
			if genesFlag != "" {
				for _, id := range strings.Split(genesFlag, ",") {
					if id = strings.TrimSpace(id); id != "" {
						sel = sel.ToggleGene(id)
					}
				}
			} else {
				// No explicit selection: take the leading genes in
				// matrix row order, still subject to the selection cap.
				m := sense
				if m == nil {
					m = antisense
				}
				n := top
				if n > len(m.GeneIDs) {
					n = len(m.GeneIDs)
				}
				for _, id := range m.GeneIDs[:n] {
					sel = sel.ToggleGene(id)
				}
			}
			if len(sel.Genes) == 0 {
				return fmt.Errorf("no genes selected")
			}

			requested := profile.StrandMode(mode)
			switch requested {
			case profile.ModeSense, profile.ModeAntisense, profile.ModeBoth:
			default:
				return fmt.Errorf("unknown strand mode %q", mode)
			}
			sel = sel.WithMode(requested, sense != nil, antisense != nil)
			if sel.Mode != requested {
				return fmt.Errorf("strand mode %q requires both orientations to be loaded", mode)
			}

			points := profile.Aggregate(sense, antisense, sel.Mode, sel.Genes)

			out := os.Stdout
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			var writer output.ProfileWriter
			switch format {
			case "tsv":
				writer = output.NewTabWriter(out)
			case "json":
				writer = output.NewJSONWriter(out)
			default:
				return fmt.Errorf("unknown output format %q", format)
			}

			if err := writer.WriteHeader(); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
			for _, p := range points {
				if err := writer.WritePoint(p); err != nil {
					return fmt.Errorf("write point: %w", err)
				}
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&sensePath, "sense", "", "Sense-orientation count table (use '-' for stdin)")
	cmd.Flags().StringVar(&antisensePath, "antisense", "", "Antisense-orientation count table")
	cmd.Flags().StringVar(&genesFlag, "genes", "", "Comma-separated gene identifiers (at most 7)")
	cmd.Flags().IntVar(&top, "top", 7, "Number of leading genes when --genes is not given")
	cmd.Flags().StringVar(&mode, "mode", "sense", "Strand mode: sense, antisense, both")
	cmd.Flags().StringVarP(&format, "format", "f", "tsv", "Output format: tsv, json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
