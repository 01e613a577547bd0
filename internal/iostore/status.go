package iostore

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/geotrend/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(out io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(out, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(out, "Total Geographies: %d\n", status.TotalGeographies)
	_, _ = fmt.Fprintf(out, "Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		_, _ = fmt.Fprintf(out, "Latest As-Of: %s\n", status.LatestAsOf)
		_, _ = fmt.Fprintf(out, "Oldest As-Of: %s\n", status.OldestAsOf)
		_, _ = fmt.Fprintf(out, "Last Update: %s\n", status.LastUpdateTime.Format("2006-01-02 15:04:05"))
	}
	if status.DatabaseSizeBytes > 0 {
		_, _ = fmt.Fprintf(out, "Database Size: %d bytes\n", status.DatabaseSizeBytes)
	}

	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	_, _ = fmt.Fprintln(out, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(out, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
