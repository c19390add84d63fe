package main

import (
	"context"
	"encoding/json"
	"flag"
	"strconv"

	"github.com/aquasecurity/table"

	"github.com/goliatone/go-rpwrap/pkg/rperr"
)

type statusRow struct {
	Code     int    `json:"code"`
	Constant string `json:"constant"`
	Message  string `json:"message"`
}

func runStatus(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	asJSON := fs.Bool("json", false, "print the table as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows := make([]statusRow, 0, len(rperr.Codes()))
	for _, code := range rperr.Codes() {
		rows = append(rows, statusRow{Code: int(code), Constant: code.Constant(), Message: code.Message()})
	}

	if *asJSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tbl := table.New(e.stdout)
	tbl.SetBorders(false)
	tbl.SetHeaders("Code", "Constant", "Message")
	for _, r := range rows {
		tbl.AddRow(strconv.Itoa(r.Code), r.Constant, r.Message)
	}
	tbl.Render()
	return nil
}
