// Package main provides the CLI entry point for rowiter-go.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ymgch/rowiter-go/pkg/rowiter"
	"github.com/ymgch/rowiter-go/pkg/rowiter/models"
)

var (
	outputPath        string
	pretty            bool
	delimiter         string
	enclosure         string
	encodingName      string
	preserveEmptyRows bool
	sheetName         string
	sheetIndex        int
	limit             int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rowiter [input.csv|input.xlsx]",
		Short: "Stream spreadsheet rows as JSON",
		Long: `rowiter-go reads tabular files (CSV and XLSX) row by row with bounded
memory and outputs the rows as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter for delimited text (default: ',' or tab for .tsv)")
	rootCmd.Flags().StringVar(&enclosure, "enclosure", "", "Field enclosure for delimited text (default: '\"')")
	rootCmd.Flags().StringVar(&encodingName, "encoding", "", "Declared encoding of delimited text (default: UTF-8)")
	rootCmd.Flags().BoolVar(&preserveEmptyRows, "preserve-empty-rows", false, "Surface empty rows instead of skipping them")
	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name (default: first sheet)")
	rootCmd.Flags().IntVar(&sheetIndex, "sheet-index", 0, "0-based worksheet index, ignored when --sheet is set")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many rows (0 = no limit)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// document is the JSON shape written by the command.
type document struct {
	File string        `json:"file"`
	Rows []*models.Row `json:"rows"`
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	it, err := rowiter.Open(inputPath, opts)
	if err != nil {
		return err
	}
	defer it.Close()

	doc := document{File: filepath.Base(inputPath), Rows: []*models.Row{}}
	if err := it.Rewind(); err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	for it.Valid() {
		doc.Rows = append(doc.Rows, it.Current())
		if limit > 0 && len(doc.Rows) >= limit {
			break
		}
		if err := it.Next(); err != nil {
			return fmt.Errorf("reading %s: %w", inputPath, err)
		}
	}

	jsonData, err := marshal(doc)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonData))
	return nil
}

func buildOptions() (rowiter.Options, error) {
	opts := rowiter.DefaultOptions()
	opts.Encoding = encodingName
	opts.ShouldPreserveEmptyRows = preserveEmptyRows

	if delimiter != "" {
		if len(delimiter) != 1 {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
		}
		opts.FieldDelimiter = delimiter[0]
	}
	if enclosure != "" {
		if len(enclosure) != 1 {
			return opts, fmt.Errorf("enclosure must be a single character, got %q", enclosure)
		}
		opts.FieldEnclosure = enclosure[0]
	}
	if sheetName != "" {
		opts.SheetName = &sheetName
	} else {
		opts.SheetIndex = &sheetIndex
	}
	return opts, nil
}

func marshal(doc document) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
