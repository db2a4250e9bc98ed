// Package catalog holds the static registry of searchable CSV datasets.
// The registry is the allow-list: a dataset or column the registry does not
// name is never fetched or scanned, no matter what the model asked for.
package catalog

import (
	"fmt"
	"strings"
)

// Dataset describes one searchable CSV file.
type Dataset struct {
	// Name is the identifier the classifier must use.
	Name string
	// ObjectKey is the blob store key of the CSV file.
	ObjectKey string
	// Triggers are example phrases that indicate a question about this dataset.
	Triggers []string
	// Columns are the searchable column names, as spelled in the CSV header.
	Columns []string
	// PrimaryColumn is the column shown when listing multiple matches.
	PrimaryColumn string
	// SKUColumn identifies a row when listing multiple matches.
	SKUColumn string
}

var datasets = []Dataset{
	{
		Name:          "products",
		ObjectKey:     "products.csv",
		Triggers:      []string{"product", "item", "sku", "price", "in stock", "category"},
		Columns:       []string{"SKU", "Name", "Category", "Price", "Stock"},
		PrimaryColumn: "Name",
		SKUColumn:     "SKU",
	},
	{
		Name:          "orders",
		ObjectKey:     "orders.csv",
		Triggers:      []string{"order", "purchase", "delivery", "shipment", "tracking"},
		Columns:       []string{"OrderID", "SKU", "CustomerName", "Status", "OrderDate"},
		PrimaryColumn: "Status",
		SKUColumn:     "SKU",
	},
	{
		Name:          "suppliers",
		ObjectKey:     "suppliers.csv",
		Triggers:      []string{"supplier", "vendor", "manufacturer", "sourced from"},
		Columns:       []string{"SupplierID", "Name", "Country", "SKU", "LeadTimeDays"},
		PrimaryColumn: "Name",
		SKUColumn:     "SKU",
	},
}

// Datasets returns the full registry. Callers must not mutate the result.
func Datasets() []Dataset {
	return datasets
}

// Names returns the dataset identifiers, for use as a schema enum.
func Names() []string {
	names := make([]string, len(datasets))
	for i, ds := range datasets {
		names[i] = ds.Name
	}
	return names
}

// Lookup finds a dataset by name, case-insensitively.
func Lookup(name string) (Dataset, bool) {
	for _, ds := range datasets {
		if strings.EqualFold(ds.Name, strings.TrimSpace(name)) {
			return ds, true
		}
	}
	return Dataset{}, false
}

// FilterColumns maps requested column names onto the dataset's canonical
// spelling, case-insensitively, dropping anything the dataset doesn't have.
func (d Dataset) FilterColumns(requested []string) []string {
	var cols []string
	for _, want := range requested {
		for _, have := range d.Columns {
			if strings.EqualFold(strings.TrimSpace(want), have) {
				cols = append(cols, have)
				break
			}
		}
	}
	return cols
}

// Describe renders the registry for the classification system prompt.
func Describe() string {
	var b strings.Builder
	for _, ds := range datasets {
		fmt.Fprintf(&b, "- %s: columns %s; asked about when the user mentions %s\n",
			ds.Name,
			strings.Join(ds.Columns, ", "),
			strings.Join(ds.Triggers, ", "))
	}
	return b.String()
}
