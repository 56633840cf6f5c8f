// Package render pretty-prints relations for the CLI and diagnostics.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/relation"
)

// Renderer formats relations as markdown tables with the presence
// condition in the last column.
type Renderer struct {
	useColor bool
	symtab   *lifted.SymbolTable
}

// NewRenderer creates a renderer; pass nil for symtab to print raw ids.
func NewRenderer(useColor bool, symtab *lifted.SymbolTable) *Renderer {
	return &Renderer{useColor: useColor, symtab: symtab}
}

// Summary renders a one-line description of a relation.
func (r *Renderer) Summary(name string, rel *relation.Relation) string {
	if r.useColor {
		return fmt.Sprintf("%s%s%s %s%s",
			color.BlueString("Relation("),
			color.CyanString(name),
			color.BlueString(","),
			r.colorizeCount("Tuples", rel.Size()),
			color.BlueString(")"))
	}
	return fmt.Sprintf("Relation(%s, %d Tuples)", name, rel.Size())
}

// Table renders a relation as a markdown table. symbolic marks the
// columns resolved through the symbol table; nil resolves none.
func (r *Renderer) Table(rel *relation.Relation, symbolic []bool) string {
	if rel.Size() == 0 {
		return "_Empty relation_"
	}
	if rel.Arity() == 0 {
		return "() " + rel.NullaryPC().String()
	}

	tableString := &strings.Builder{}

	alignment := make([]tw.Align, rel.Arity()+1)
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	headers := make([]string, rel.Arity()+1)
	for i := 0; i < rel.Arity(); i++ {
		headers[i] = "c" + strconv.Itoa(i)
	}
	headers[rel.Arity()] = "PC"
	table.Header(headers)

	it := rel.Iterate()
	defer it.Close()
	for it.Next() {
		rec := it.Record()
		row := make([]string, rec.Arity+1)
		for j, v := range rec.Fields {
			row[j] = r.formatValue(v, symbolic != nil && symbolic[j])
		}
		row[rec.Arity] = rec.PC.String()
		table.Append(row)
	}

	table.Render()
	return tableString.String()
}

// formatValue resolves a symbolic value through the symbol table.
func (r *Renderer) formatValue(v lifted.Val, symbol bool) string {
	if symbol && r.symtab != nil {
		if name, ok := r.symtab.Name(v); ok {
			return name
		}
	}
	return strconv.FormatInt(int64(v), 10)
}

// colorizeCount formats a count with color based on size.
func (r *Renderer) colorizeCount(label string, count int) string {
	if !r.useColor {
		return fmt.Sprintf("%d %s", count, label)
	}
	countStr := strconv.Itoa(count)
	switch {
	case count == 0:
		countStr = color.RedString(countStr)
	case count < 100:
		countStr = color.GreenString(countStr)
	case count < 10000:
		countStr = color.YellowString(countStr)
	default:
		countStr = color.RedString(countStr)
	}
	return fmt.Sprintf("%s %s", countStr, label)
}
