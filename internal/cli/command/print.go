package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/snipsterlab/snipster/internal/snippets"
)

const createdDateFormat = "2006-01-02"

func printSnippetTable(out io.Writer, records []snippets.Snippet) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No snippets found")
		return
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tLANGUAGE\tTAGS\tFAV\tCREATED")
	for _, record := range records {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\t%s\n",
			record.ID,
			record.Title,
			record.Language,
			valueOrDash(record.Tags),
			favouriteMark(record.Favorite),
			record.CreatedAt.Format(createdDateFormat),
		)
	}
	writer.Flush()
}

func printSnippetDetail(out io.Writer, record snippets.Snippet) {
	fmt.Fprintf(out, "ID:          %d\n", record.ID)
	fmt.Fprintf(out, "Title:       %s\n", record.Title)
	fmt.Fprintf(out, "Language:    %s\n", record.Language)
	fmt.Fprintf(out, "Description: %s\n", valueOrDash(record.Description))
	fmt.Fprintf(out, "Tags:        %s\n", valueOrDash(record.Tags))
	fmt.Fprintf(out, "Favourite:   %s\n", favouriteMark(record.Favorite))
	fmt.Fprintf(out, "Created:     %s\n", record.CreatedAt.Format(createdDateFormat))
	fmt.Fprintf(out, "Code:\n%s\n", record.Code)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func favouriteMark(favorite bool) string {
	if favorite {
		return "*"
	}
	return ""
}
