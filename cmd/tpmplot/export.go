package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
	"github.com/seqlab/tpmplot/internal/loader"
	"github.com/seqlab/tpmplot/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		sensePath      string
		antisensePath  string
		annotationPath string
		outputPath     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export normalized expression to a DuckDB database",
		Long: `Export the normalized log2(TPM+1) matrices, together with gene
annotation, into a DuckDB database for downstream querying.`,
		Example: `  tpmplot export --sense sense_counts.tsv --annotation genome.gff -o expr.duckdb
  tpmplot export --sense s.tsv --antisense as.tsv -o expr.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			if outputPath == "" {
				return fmt.Errorf("--output is required")
			}
			if ext := filepath.Ext(outputPath); ext != ".duckdb" && ext != ".db" {
				outputPath += ".duckdb"
			}
			if _, err := os.Stat(outputPath); err == nil {
				if err := os.Remove(outputPath); err != nil {
					return fmt.Errorf("remove existing file: %w", err)
				}
			}

			sense := counts.ParseString(loader.ReadOptional(sensePath, logger))
			antisense := counts.ParseString(loader.ReadOptional(antisensePath, logger))
			annotations := annotation.ParseString(loader.ReadOptional(annotationPath, logger))
			if sense == nil && antisense == nil {
				return fmt.Errorf("no count data loaded")
			}

			st, err := store.New(outputPath)
			if err != nil {
				return fmt.Errorf("create database: %w", err)
			}
			defer st.Close()

			if err := st.CreateSchema(); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}

			type orientedMatrix struct {
				label string
				m     *counts.Matrix
			}
			for _, om := range []orientedMatrix{{"sense", sense}, {"antisense", antisense}} {
				if om.m == nil {
					continue
				}
				if err := st.InsertGenes(om.m, annotations); err != nil {
					return fmt.Errorf("insert genes: %w", err)
				}
				if err := st.InsertExpression(om.m, om.label); err != nil {
					return fmt.Errorf("insert expression: %w", err)
				}
			}

			geneCount, err := st.GeneCount()
			if err != nil {
				return fmt.Errorf("verify gene count: %w", err)
			}
			exprCount, err := st.ExpressionCount()
			if err != nil {
				return fmt.Errorf("verify expression count: %w", err)
			}

			logger.Info("export complete",
				zap.String("output", outputPath),
				zap.Int("genes", geneCount),
				zap.Int("expression_rows", exprCount))
			return nil
		},
	}

	cmd.Flags().StringVar(&sensePath, "sense", "", "Sense-orientation count table")
	cmd.Flags().StringVar(&antisensePath, "antisense", "", "Antisense-orientation count table")
	cmd.Flags().StringVar(&annotationPath, "annotation", "", "GFF3 annotation file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file path")

	return cmd
}
