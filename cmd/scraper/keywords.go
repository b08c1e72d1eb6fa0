package main

import (
	"fmt"
	"io"
	"strings"

	"go-multisite-scraper/internal/extract"
)

// printCatalogue lists the keyword catalogue grouped by category, in
// catalogue order.
func printCatalogue(w io.Writer) {
	var order []extract.Category
	groups := make(map[extract.Category][]string)
	for _, k := range extract.Catalogue() {
		if _, ok := groups[k.Category]; !ok {
			order = append(order, k.Category)
		}
		groups[k.Category] = append(groups[k.Category], k.Name)
	}

	for _, c := range order {
		fmt.Fprintf(w, "%s (%d): %s\n", c, len(groups[c]), strings.Join(groups[c], ", "))
	}
}
