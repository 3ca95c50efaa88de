package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atomicstack/keypad-popup/internal/config"
	"github.com/atomicstack/keypad-popup/internal/format/table"
	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/layout"
	"github.com/atomicstack/keypad-popup/internal/layoutfile"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
)

const (
	// layoutCaptionHeight matches the one row captions of the terminal view.
	layoutCaptionHeight = 1
	// layoutHeaderRows is the space the terminal view keeps above the keypad
	// for the history and entry lines. Top row popups open into it.
	layoutHeaderRows = 4
)

func newLayoutCmd(resolve func([]string) (config.Config, error)) *cobra.Command {
	var (
		check int
		dump  string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Validate a layout and print its rows and popups",
		Long: `Load the layout (built-in unless --layout is given), validate it and print
how each pad partitions into rows, followed by every popup and where it
would open inside a container of the keypad's width or --check columns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(args)
			if err != nil {
				return err
			}
			file, err := layoutfile.Load(cfg.App.LayoutPath)
			if err != nil {
				events.Layout.Rejected(cfg.App.LayoutPath, err)
				return configError{err: err}
			}
			catalog, err := file.Catalog()
			if err != nil {
				events.Layout.Rejected(file.Source, err)
				return configError{err: err}
			}
			events.Layout.Loaded(file.Source, len(file.Pads), len(file.Popups))
			if dump != "" {
				format, err := layoutfile.ParseFormat(dump)
				if err != nil {
					return configError{err: err}
				}
				return file.Encode(cmd.OutOrStdout(), format)
			}
			if check < 0 {
				return configError{err: fmt.Errorf("check must be >= 0 (got %d)", check)}
			}
			return writeLayout(cmd.OutOrStdout(), file.Source, catalog, float32(check))
		},
	}
	cmd.Flags().IntVar(&check, "check", 0, "container width for popup placement (0 uses the keypad width)")
	cmd.Flags().StringVar(&dump, "dump", "", "re-encode the layout as toml or yaml instead of describing it")
	return cmd
}

// writeLayout prints each pad's rows and each popup's placement.
func writeLayout(w io.Writer, source string, catalog *keys.Catalog, width float32) error {
	grid, err := layout.Arrange(geom.Pt(0, layoutHeaderRows), layoutCaptionHeight, catalog.Pads()...)
	if err != nil {
		return err
	}
	bounds := grid.Bounds()
	if width <= 0 {
		width = bounds.Dx()
	}
	container := geom.XYWH(0, 0, width, bounds.Max.Y)

	fmt.Fprintf(w, "layout %s\n", source)
	rows := grid.Rows()
	for _, pad := range catalog.Pads() {
		fmt.Fprintf(w, "\npad %s  columns=%d  unit=%gx%g\n", pad.Name, pad.RowCapacity, pad.Visual.Width, pad.Visual.Height)
		lines := [][]string{{"row", "units", "keys"}}
		for _, row := range rows {
			if len(row) == 0 || row[0].Pad != pad.Name {
				continue
			}
			line := []string{strconv.Itoa(row[0].Row), ""}
			units := 0
			for _, p := range row {
				units += p.Key.Span()
				line = append(line, keyCell(p.Key))
			}
			line[1] = strconv.Itoa(units)
			lines = append(lines, line)
		}
		for _, l := range table.Format(lines, []table.Alignment{table.AlignRight, table.AlignRight}) {
			fmt.Fprintln(w, l)
		}
	}

	owners := catalog.Owners()
	if len(owners) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\npopups in %g columns\n", width)
	lines := [][]string{{"owner", "caption", "fit", "frame", "options"}}
	for _, owner := range owners {
		popup, _ := catalog.Popup(owner)
		names := make([]string, len(popup.Keys))
		for i, k := range popup.Keys {
			names[i] = keyCell(k)
		}
		fit, frame := placePopup(grid, container, popup)
		lines = append(lines, []string{string(owner), popup.Caption, fit, frame, strings.Join(names, " ")})
	}
	for _, l := range table.Format(lines, nil) {
		fmt.Fprintln(w, l)
	}
	return nil
}

func placePopup(grid layout.Grid, container geom.Rect, popup keys.PopupPadSpec) (fit, frame string) {
	key, ok := grid.Find(popup.Owner)
	if !ok {
		return "unplaced", "-"
	}
	var caption float32
	if popup.Caption != "" {
		caption = layoutCaptionHeight
	}
	r, ok := layout.SolvePopup(layout.PopupInput{
		Container: container,
		Origin:    key.Frame.Min,
		Unit:      key.Unit,
		Options:   len(popup.Keys),
		Caption:   caption,
		Gap:       key.Gap,
	})
	if !ok {
		return "infeasible", "-"
	}
	return "ok", r.String()
}

func keyCell(k keys.Key) string {
	name := k.Name()
	if k.Span() > 1 {
		name += "×" + strconv.Itoa(k.Span())
	}
	return name
}
