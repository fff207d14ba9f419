package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
	"github.com/seqlab/tpmplot/internal/loader"
	"github.com/seqlab/tpmplot/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		sensePath      string
		antisensePath  string
		annotationPath string
		port           int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gene lists and expression profiles over HTTP",
		Example: `  tpmplot serve --sense sense_counts.tsv --annotation genome.gff
  tpmplot serve --sense s.tsv --antisense as.tsv --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			sense := counts.ParseString(loader.ReadOptional(sensePath, logger))
			antisense := counts.ParseString(loader.ReadOptional(antisensePath, logger))
			annotations := annotation.ParseString(loader.ReadOptional(annotationPath, logger))
			if sense == nil && antisense == nil && len(annotations) == 0 {
				return fmt.Errorf("no data loaded")
			}

			srv, err := server.New(server.Config{
				Sense:       sense,
				Antisense:   antisense,
				Annotations: annotations,
				CORSOrigins: viper.GetStringSlice("server.cors_origins"),
				CacheSize:   viper.GetInt("server.cache_size"),
			})
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			srv.SetLogger(logger)

			if port == 0 {
				port = viper.GetInt("server.port")
			}
			logger.Info("listening",
				zap.Int("port", port),
				zap.Bool("sense", sense != nil),
				zap.Bool("antisense", antisense != nil),
				zap.Int("annotations", len(annotations)))

			return http.ListenAndServe(fmt.Sprintf(":%d", port), srv.Router())
		},
	}

	cmd.Flags().StringVar(&sensePath, "sense", "", "Sense-orientation count table")
	cmd.Flags().StringVar(&antisensePath, "antisense", "", "Antisense-orientation count table")
	cmd.Flags().StringVar(&annotationPath, "annotation", "", "GFF3 annotation file")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config, 8080)")

	return cmd
}
