package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
	"github.com/seqlab/tpmplot/internal/geneindex"
	"github.com/seqlab/tpmplot/internal/loader"
)

func newGenesCmd() *cobra.Command {
	var (
		sensePath      string
		annotationPath string
		search         string
		sortKey        string
		descending     bool
	)

	cmd := &cobra.Command{
		Use:   "genes",
		Short: "List, search, and sort gene identifiers",
		Long: `List at most 100 gene identifiers with their annotation. The search
term matches the identifier, the product, and the gene name
case-insensitively; sorting is by identifier, product, or mean
sense-orientation expression.`,
		Example: `  tpmplot genes --sense sense_counts.tsv --annotation genome.gff
  tpmplot genes --sense sense_counts.tsv --annotation genome.gff --search kinase
  tpmplot genes --sense sense_counts.tsv --sort expression --desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			switch geneindex.SortKey(sortKey) {
			case geneindex.SortByID, geneindex.SortByName, geneindex.SortByExpression:
			default:
				return fmt.Errorf("unknown sort key %q", sortKey)
			}

			sense := counts.ParseString(loader.ReadOptional(sensePath, logger))
			annotations := annotation.ParseString(loader.ReadOptional(annotationPath, logger))
			if sense == nil && len(annotations) == 0 {
				return fmt.Errorf("no gene data loaded")
			}

			index := geneindex.New(sense, annotations)
			ids := index.Browse(search, geneindex.SortConfig{
				Key:        geneindex.SortKey(sortKey),
				Descending: descending,
			})

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()
			fmt.Fprintln(w, "#Gene\tProduct\tName\tBiotype")
			for _, id := range ids {
				rec, ok := index.Annotation(id)
				if !ok {
					fmt.Fprintf(w, "%s\t-\t-\t-\n", id)
					continue
				}
				name := rec.GeneName
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, rec.Product, name, rec.Biotype)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sensePath, "sense", "", "Sense-orientation count table")
	cmd.Flags().StringVar(&annotationPath, "annotation", "", "GFF3 annotation file")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive search term")
	cmd.Flags().StringVar(&sortKey, "sort", "id", "Sort key: id, name, expression")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort in descending order")

	return cmd
}
