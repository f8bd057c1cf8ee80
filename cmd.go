package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dencangan/automation-framework/convert"
	"github.com/dencangan/automation-framework/files"
	"github.com/dencangan/automation-framework/report"
	"github.com/dencangan/automation-framework/table"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "automata",
		Short:         "Personal automation toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newArrangeCmd(),
		newQueryCmd(),
		newCSV2JSONCmd(),
		newCountCmd(),
		newLatestCmd(),
		newPrintCmd(),
		newSendCmd(),
	)
	return root
}

func newArrangeCmd() *cobra.Command {
	var misc string

	cmd := &cobra.Command{
		Use:   "arrange <dir>",
		Short: "Sort a directory's files into subfolders by extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return files.NewManager(args[0]).Arrange(misc)
		},
	}

	cmd.Flags().StringVar(&misc, "misc", "others", "folder for files without a recognized extension")
	return cmd
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL over local CSV or parquet files and print JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := table.NewClient()
			if err := client.Initialize(); err != nil {
				return err
			}
			defer client.Close()

			results, err := client.Query(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(table.ProcessForJSON(results), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results: %v", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}

func newCSV2JSONCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "csv2json <src> <dst>",
		Short: "Convert a CSV file into a JSON object keyed by a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert.CSVToJSON(afero.NewOsFs(), args[0], args[1], key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "Date", "column whose value keys each record")
	return cmd
}

func newCountCmd() *cobra.Command {
	var suffix string

	cmd := &cobra.Command{
		Use:   "count <dir>",
		Short: "Count lines of matching files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := files.NewManager(args[0])
			total, err := m.CountLines(args[0], suffix)
			if err != nil {
				return err
			}
			fmt.Println(total)
			return nil
		},
	}

	cmd.Flags().StringVar(&suffix, "suffix", ".go", "only count files ending in this suffix")
	return cmd
}

func newLatestCmd() *cobra.Command {
	var fileType string

	cmd := &cobra.Command{
		Use:   "latest <dir>",
		Short: "Print the most recently modified file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := files.NewManager(args[0]).LatestModified(fileType)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&fileType, "type", "", "restrict to files ending in this suffix, e.g. .csv")
	return cmd
}

func newPrintCmd() *cobra.Command {
	var (
		quoteKeys bool
		indent    string
	)

	cmd := &cobra.Command{
		Use:   "print <file.json>",
		Short: "Pretty-print a JSON object one key per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := afero.ReadFile(afero.NewOsFs(), args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %v", args[0], err)
			}

			var m map[string]any
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("failed to parse %s: %v", args[0], err)
			}
			report.FormatMap(cmd.OutOrStdout(), m, report.MapFormat{
				QuoteKeys: quoteKeys,
				Indent:    indent,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&quoteKeys, "quote-keys", false, "quote keys and values in the output")
	cmd.Flags().StringVar(&indent, "indent", "\t", "indentation for nested objects")
	return cmd
}

func newSendCmd() *cobra.Command {
	var (
		configPath  string
		to          []string
		subject     string
		text        string
		images      []string
		attachments []string
		addCSS      bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Compose and send an email report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(to) == 0 {
				return fmt.Errorf("at least one --to recipient is required")
			}

			cfg, err := report.LoadConfig(configPath)
			if err != nil {
				return err
			}

			email := &report.Email{
				Text:        text,
				Images:      images,
				Attachments: attachments,
				AddCSS:      addCSS,
			}
			return email.Send(cmd.Context(), cfg, to, subject)
		},
	}

	home, _ := os.UserHomeDir()
	cmd.Flags().StringVar(&configPath, "config", home+"/.automata/credentials.json", "email credentials file")
	cmd.Flags().StringSliceVar(&to, "to", nil, "recipient addresses")
	cmd.Flags().StringVar(&subject, "subject", "", "email subject")
	cmd.Flags().StringVar(&text, "text", "", "email body text (HTML allowed)")
	cmd.Flags().StringSliceVar(&images, "image", nil, "paths of images to inline")
	cmd.Flags().StringSliceVar(&attachments, "attach", nil, "paths of files to attach")
	cmd.Flags().BoolVar(&addCSS, "css", false, "apply the default report stylesheet")
	return cmd
}
