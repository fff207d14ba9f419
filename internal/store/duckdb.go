// Package store writes normalized expression data to a DuckDB database
// for downstream analysis.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
)

// Store is a DuckDB-backed export target for normalized matrices.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) a DuckDB database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the gene and expression tables.
func (s *Store) CreateSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS genes (
			gene_id VARCHAR PRIMARY KEY,
			chrom VARCHAR,
			start_ VARCHAR,
			end_ VARCHAR,
			strand VARCHAR,
			product VARCHAR,
			gene_name VARCHAR,
			biotype VARCHAR
		);

		CREATE TABLE IF NOT EXISTS expression (
			gene_id VARCHAR,
			sample VARCHAR,
			condition VARCHAR,
			orientation VARCHAR,
			log2_tpm DOUBLE,
			PRIMARY KEY (gene_id, sample, orientation)
		);

		CREATE INDEX IF NOT EXISTS idx_expression_gene ON expression(gene_id);
		CREATE INDEX IF NOT EXISTS idx_expression_condition ON expression(condition);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertGenes inserts one gene row per matrix gene, joined with its
// annotation record when one exists.
func (s *Store) InsertGenes(m *counts.Matrix, annotations map[string]annotation.Record) error {
	for _, id := range m.GeneIDs {
		row := m.Rows[id]
		var product, geneName, biotype interface{}
		if rec, ok := annotations[id]; ok {
			product = rec.Product
			geneName = nullString(rec.GeneName)
			biotype = rec.Biotype
		}
		_, err := s.db.Exec(`
			INSERT OR REPLACE INTO genes (gene_id, chrom, start_, end_, strand,
			                              product, gene_name, biotype)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, row.Meta.Chr, row.Meta.Start, row.Meta.End, row.Meta.Strand,
			product, geneName, biotype)
		if err != nil {
			return fmt.Errorf("insert gene %s: %w", id, err)
		}
	}
	return nil
}

// InsertExpression inserts the normalized values of one matrix under
// the given orientation label ("sense" or "antisense").
func (s *Store) InsertExpression(m *counts.Matrix, orientation string) error {
	for _, id := range m.GeneIDs {
		row := m.Rows[id]
		for _, sample := range m.Samples {
			_, err := s.db.Exec(`
				INSERT OR REPLACE INTO expression (gene_id, sample, condition, orientation, log2_tpm)
				VALUES (?, ?, ?, ?, ?)
			`, id, sample, counts.ConditionOf(sample), orientation, row.Values[sample])
			if err != nil {
				return fmt.Errorf("insert expression %s/%s: %w", id, sample, err)
			}
		}
	}
	return nil
}

// GeneCount returns the number of gene rows in the database.
func (s *Store) GeneCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM genes").Scan(&count)
	return count, err
}

// ExpressionCount returns the number of expression rows in the database.
func (s *Store) ExpressionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM expression").Scan(&count)
	return count, err
}

// nullString returns nil if s is empty, otherwise s.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
