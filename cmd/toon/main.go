// toon - TOON decoding CLI
//
// Usage:
//
//	toon decode [file]   Decode a TOON document and print it as JSON
//	toon result [file]   Resolve the "TOON: <path>" line of an agent reply
//	toon path            Allocate a new result file path
//
// If no file is given, or the file is "-", input is read from stdin.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zai-speckit/toon/agentresult"
	"github.com/zai-speckit/toon/toon"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	debug  bool
	logger *slog.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		in:     in,
		out:    out,
		errOut: errOut,
		logger: newLogger(errOut, false),
	}

	rootCmd := &cobra.Command{
		Use:           "toon [command]",
		Short:         "Decode TOON documents and agent result files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(a.errOut, a.debug)
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(a.decodeCmd(), a.resultCmd(), a.pathCmd())
	return rootCmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove timestamp for cleaner output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		indent    bool
		keepItems bool
		maxDepth  int
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a TOON document and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(args)
			if err != nil {
				return err
			}

			a.logger.Debug("decoding document", "bytes", len(data), "max_depth", maxDepth, "keep_items", keepItems)
			value, err := toon.DecodeWithOptions(string(data), &toon.DecodeOptions{
				MaxDepth:         maxDepth,
				KeepItemsWrapper: keepItems,
			})
			if err != nil {
				return err
			}
			return a.writeJSON(value, indent)
		},
	}

	cmd.Flags().BoolVar(&indent, "indent", false, "Pretty print the JSON output")
	cmd.Flags().BoolVar(&keepItems, "keep-items", false, "Keep a top level items array wrapped in its mapping")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum nesting depth, 0 for no limit")
	return cmd
}

func (a *app) resultCmd() *cobra.Command {
	var (
		asJSON bool
		indent bool
	)

	cmd := &cobra.Command{
		Use:   "result [file]",
		Short: "Load the result file referenced by an agent reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.readInput(args)
			if err != nil {
				return err
			}

			path, ok := agentresult.ParseReference(string(reply))
			if !ok {
				return agentresult.ErrNoReference
			}
			a.logger.Debug("loading result", "path", path)

			result, err := agentresult.Load(path)
			if err != nil {
				return err
			}

			if asJSON {
				return a.writeJSON(result.Fields, indent)
			}
			a.writeSummary(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the whole result as JSON")
	cmd.Flags().BoolVar(&indent, "indent", false, "Pretty print the JSON output")
	return cmd
}

func (a *app) pathCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print a new result file path and its reply line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := agentresult.NewPath(dir)
			if err != nil {
				return err
			}
			a.logger.Debug("allocated result path", "path", path)

			fmt.Fprintln(a.out, path)
			fmt.Fprintln(a.out, agentresult.Reference(path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", agentresult.DefaultDir, "Directory for result files")
	return cmd
}

// readInput reads the named file, or stdin when no file or "-" is given.
func (a *app) readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		a.logger.Debug("reading stdin")
		return io.ReadAll(a.in)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", args[0], err)
	}
	return data, nil
}

func (a *app) writeJSON(v interface{}, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	fmt.Fprintln(a.out, string(data))
	return nil
}

func (a *app) writeSummary(r *agentresult.Result) {
	files := make([]string, len(r.Files))
	for i, f := range r.Files {
		if strings.Contains(f, ",") {
			f = `"` + f + `"`
		}
		files[i] = f
	}

	fmt.Fprintf(a.out, "status: %s\n", r.Status)
	fmt.Fprintf(a.out, "task: %s\n", r.Task)
	fmt.Fprintf(a.out, "files[%d]: %s\n", len(files), strings.Join(files, ","))
	fmt.Fprintf(a.out, "notes: %s\n", r.Notes)
}
