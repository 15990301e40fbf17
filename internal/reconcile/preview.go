package reconcile

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"salesrecon/internal/model"
)

// WritePreview 输出缺失名单的前 limit 行；limit <= 0 时输出全部
func WritePreview(w io.Writer, header []string, records []model.Discrepancy, limit int) error {
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range records[:limit] {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Date, r.Group, r.Salesperson)
	}
	return tw.Flush()
}
