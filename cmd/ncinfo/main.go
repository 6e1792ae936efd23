// Command ncinfo inspects NetCDF classic files: header contents, dimension
// and variable listings, and 2D slices of array data. It consumes only the
// public netcdf API and does no byte parsing of its own.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-netcdf/netcdf"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ncinfo",
	Short: "Inspect NetCDF classic and 64-bit offset files",
	Long: `ncinfo reads the self-describing header of a NetCDF classic file and
answers queries against it without loading whole variables into memory.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log advisory diagnostics to stderr")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openFile(path string) (*netcdf.File, error) {
	var opts []netcdf.FileOption
	if verbose {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts = append(opts, netcdf.WithLogger(log))
	}
	f, err := netcdf.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if warn := f.LayoutWarning(); warn != nil {
		color.Yellow("warning: %v", warn)
	}
	return f, nil
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize the file header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		st, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("file:          %s (%s)\n", args[0], humanize.Bytes(uint64(st.Size())))
		fmt.Printf("format:        %s\n", f.Version())
		fmt.Printf("dimensions:    %d\n", len(f.Dimensions()))
		fmt.Printf("variables:     %d\n", len(f.Variables()))
		fmt.Printf("global attrs:  %d\n", len(f.Attributes()))
		fmt.Printf("records:       %d\n", f.NumRecords())
		if f.RecordStride() > 0 {
			fmt.Printf("record stride: %s\n", humanize.Bytes(uint64(f.RecordStride())))
		}
		return nil
	},
}

var dimsCmd = &cobra.Command{
	Use:   "dims <file>",
	Short: "List dimensions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Length", "Unlimited"})
		for _, d := range f.Dimensions() {
			unlimited := ""
			if d.IsUnlimited() {
				unlimited = "yes"
			}
			table.Append([]string{d.Name(), strconv.Itoa(d.Len()), unlimited})
		}
		table.Render()
		return nil
	},
}

var varsCmd = &cobra.Command{
	Use:   "vars <file>",
	Short: "List variables with their resolved data placement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Type", "Dimensions", "Record", "Begin", "Size"})
		for _, v := range f.Variables() {
			record := ""
			if v.IsRecord() {
				record = "yes"
			}
			table.Append([]string{
				v.Name(),
				v.Type().String(),
				strings.Join(v.DimensionNames(), ","),
				record,
				strconv.FormatInt(v.Begin(), 10),
				humanize.Bytes(uint64(v.VSize())),
			})
		}
		table.Render()
		return nil
	},
}

var attrsCmd = &cobra.Command{
	Use:   "attrs <file> [variable]",
	Short: "List global or per-variable attributes",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		atts := f.Attributes()
		if len(args) == 2 {
			v := f.Variable(args[1])
			if v == nil {
				return fmt.Errorf("no such variable %q", args[1])
			}
			atts = v.Attributes()
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Type", "Value"})
		for _, a := range atts {
			table.Append([]string{a.Name(), a.Type().String(), formatAttr(a)})
		}
		table.Render()
		return nil
	},
}

var coordsCmd = &cobra.Command{
	Use:   "coords <file> <dimension>",
	Short: "Print a dimension's coordinate values",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		values, err := f.ReadDimensionValues(args[1])
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Printf("%g\n", v)
		}
		return nil
	},
}

var (
	readY   string
	readX   string
	readFix []string
)

var readCmd = &cobra.Command{
	Use:   "read <file> <variable>",
	Short: "Read a 2D slice of a variable",
	Long: `Read a 2D slice of a variable with the given y and x axes. Every other
axis of the variable must be pinned with --fix.

Example:
  ncinfo read data.nc temperature -y lat -x lon --fix time=3`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		v := f.Variable(args[1])
		if v == nil {
			return fmt.Errorf("no such variable %q", args[1])
		}

		fixed := make(map[string]int, len(readFix))
		for _, fix := range readFix {
			name, val, ok := strings.Cut(fix, "=")
			if !ok {
				return fmt.Errorf("--fix wants dimension=index, got %q", fix)
			}
			idx, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("--fix %q: %w", fix, err)
			}
			fixed[name] = idx
		}

		rows, err := v.Read2D(readY, readX, fixed)
		if err != nil {
			return err
		}
		for _, row := range rows {
			parts := make([]string, len(row))
			for i, val := range row {
				parts[i] = fmt.Sprintf("%g", val)
			}
			fmt.Println(strings.Join(parts, "\t"))
		}
		return nil
	},
}

func formatAttr(a *netcdf.Attribute) string {
	if text, ok := a.Text(); ok {
		return strconv.Quote(text)
	}
	parts := make([]string, 0, len(a.Values()))
	for _, v := range a.Values() {
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	return strings.Join(parts, ", ")
}

func init() {
	readCmd.Flags().StringVarP(&readY, "y-axis", "y", "", "dimension for the outer (row) axis")
	readCmd.Flags().StringVarP(&readX, "x-axis", "x", "", "dimension for the inner (column) axis")
	readCmd.Flags().StringArrayVar(&readFix, "fix", nil, "pin an axis: dimension=index (repeatable)")
	readCmd.MarkFlagRequired("y-axis")
	readCmd.MarkFlagRequired("x-axis")

	rootCmd.AddCommand(infoCmd, dimsCmd, varsCmd, attrsCmd, coordsCmd, readCmd)
}
