package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ramonehamilton/riftbound-companion/internal/export"
)

// runExport writes a dataset to the -o file, or to w when no file is given.
func runExport(a *app, args []string, w io.Writer) error {
	if len(args) < 1 {
		return errors.New("export kind required: collection, decks or packs")
	}
	kind := args[0]

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	formatFlag := fs.String("format", "json", "Output format: csv or json")
	out := fs.String("o", "", "Output file (default: stdout)")
	overwrite := fs.Bool("overwrite", false, "Replace an existing output file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}

	lookup := a.catalog.Current().Get
	var data interface{}
	switch kind {
	case "collection":
		data = export.CollectionRows(a.stores.Collection.Entries(), lookup, a.stores.Pricing.GetPrice)
	case "decks":
		data = export.DeckRows(a.stores.Decks.List(), lookup)
	case "packs":
		data = export.PackRows(a.stores.Packs.History())
	default:
		return fmt.Errorf("unknown export kind %q", kind)
	}

	if *out == "" {
		return export.Write(w, format, data)
	}
	if err := export.WriteFile(*out, format, data, *overwrite); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %s to %s\n", kind, *out)
	return nil
}
