package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/urdf-go/export"
	"github.com/geoknoesis/urdf-go/urdf"
)

func loadGraphFile(path string, logger *slog.Logger) (*urdf.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	g, err := urdf.LoadGraph(data, urdf.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("graph loaded", slog.String("path", path), slog.Int("bytes", len(data)))
	return g, nil
}

func dumpCmd(a *app) *cobra.Command {
	var tokens bool

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the triples (or the raw CBOR tokens) of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if tokens {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read graph: %w", err)
				}
				toks, err := urdf.Tokens(data)
				for _, tok := range toks {
					fmt.Fprintf(out, "%-6d % X\t%s\n", tok.Start, tok.Bytes(data), tok.Kind)
				}
				return err
			}

			g, err := loadGraphFile(args[0], a.logger)
			if err != nil {
				return err
			}
			if name, err := g.Name(); err == nil {
				if u, ok := name.(urdf.URIRef); !ok || !u.IsZero() {
					fmt.Fprintf(out, "# graph %s\n", name)
				}
			}
			return g.ForEach(func(t urdf.Triple) error {
				_, err := fmt.Fprintln(out, t)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&tokens, "tokens", false, "Print the CBOR token stream instead of triples")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATTERN...",
		Short: "Validate graph files matching glob patterns (** supported)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			total, failed := 0, 0
			for _, pattern := range args {
				matches, err := doublestar.FilepathGlob(pattern)
				if err != nil {
					return fmt.Errorf("bad pattern %q: %w", pattern, err)
				}
				if len(matches) == 0 {
					a.logger.Warn("no files match pattern", slog.String("pattern", pattern))
				}
				for _, path := range matches {
					total++
					g, err := loadGraphFile(path, a.logger)
					if err == nil {
						var st urdf.Stats
						if st, err = g.Stats(); err == nil {
							fmt.Fprintf(out, "ok   %s nodes=%d triples=%d bytes=%d\n", path, st.Nodes, st.Triples, st.Size)
							continue
						}
					}
					failed++
					fmt.Fprintf(out, "FAIL %s %s (%d): %v\n", path, urdf.Code(err), urdf.Status(err), err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, total)
			}
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var (
		vocabPath string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a graph file to a standard RDF syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := export.Format(strings.ToLower(format))
			if _, ok := export.GetFormatInfo(f); !ok {
				return fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(export.Formats(), ", "))
			}

			v := export.DefaultVocabulary()
			if vocabPath != "" {
				var err error
				if v, err = export.LoadVocabulary(vocabPath); err != nil {
					return err
				}
				a.logger.Debug("vocabulary loaded",
					slog.String("path", vocabPath),
					slog.Int("namespaces", len(v.Namespaces)),
					slog.Int("terms", len(v.Terms)))
			}

			g, err := loadGraphFile(args[0], a.logger)
			if err != nil {
				return err
			}
			return export.Write(cmd.Context(), cmd.OutOrStdout(), g, v, f)
		},
	}

	cmd.Flags().StringVar(&vocabPath, "vocab", "", "YAML vocabulary mapping ids to IRIs")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatNTriples), "Output format ("+strings.Join(export.Formats(), ", ")+")")
	return cmd
}

func vocabCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Write the vocabulary of the demo graph as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := demoVocabulary().SaveToFile(output); err != nil {
				return err
			}
			a.logger.Info("vocabulary written", slog.String("path", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "coswot.yaml", "Output file")
	return cmd
}
