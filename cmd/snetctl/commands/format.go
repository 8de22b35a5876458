package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// componentView mirrors internal/control's GET /components element shape.
type componentView struct {
	ID       int64   `json:"id"`
	ParentID int64   `json:"parent_id"`
	Name     string  `json:"name"`
	Children []int64 `json:"children"`
}

// stateView mirrors internal/control's GET /state/{id}/{key} response shape.
type stateView struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

func formatComponents(views []componentView, format string) (string, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal components to JSON: %w", err)
		}
		return string(data), nil
	case formatTable:
		return formatComponentsTable(views), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatComponentsTable(views []componentView) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARENT-ID\tNAME\tCHILDREN")
	for _, v := range views {
		fmt.Fprintf(w, "%d\t%d\t%s\t%v\n", v.ID, v.ParentID, v.Name, v.Children)
	}
	_ = w.Flush()
	return buf.String()
}

func formatState(view stateView, format string) (string, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal state to JSON: %w", err)
		}
		return string(data), nil
	case formatTable:
		return fmt.Sprintf("value:\t%v\ntype:\t%s\n", view.Value, view.Type), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}
