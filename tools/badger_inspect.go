package main

import (
	"flag"
	"log"
	"meeting-lab/internal"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// badger_inspect dumps the rows of a stopped store as a table.
func main() {
	dbPath := flag.String("db", "data/badger", "Path to badger DB")
	prefix := flag.String("prefix", internal.DefaultPrefix, "Prefix to scan")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "Table", "Id", "Actor", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(*prefix)); it.ValidForPrefix([]byte(*prefix)); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				row := internal.DefaultMapper(string(item.Key()), v)
				table.Append([]string{row.Timestamp, row.Table, row.EntityID, row.Actor, row.Detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}
	table.Render()
}
