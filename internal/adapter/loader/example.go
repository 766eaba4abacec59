package loader

import (
	"encoding/csv"
	"io"
)

// WriteExampleLedger writes the sample purchase-history CSV the dashboard
// offers for download, for users to fill in with their own data.
func WriteExampleLedger(w io.Writer) error {
	rows := [][]string{
		{colPurchaseDate, colCode, colAssetClass, colQuantity, colUnitPrice, colFees},
		{"2024-01-15", "XPLG11", "FII", "50", "95.50", "4.90"},
		{"2024-02-20", "HGLG11", "FII", "30", "158.20", "4.90"},
		{"2024-03-10", "ITUB4", "Ação", "100", "28.50", "4.90"},
		{"2024-04-05", "XPLG11", "FII", "25", "99.80", "2.50"},
		{"2025-01-10", "MXRF11", "FII", "200", "10.15", "0"},
	}
	return writeCSV(w, rows)
}

// WriteExampleWatchlist writes the sample watchlist CSV.
func WriteExampleWatchlist(w io.Writer) error {
	rows := [][]string{
		{colCode, colAssetClass, colSector},
		{"XPLG11", "FII", "Logística"},
		{"HGLG11", "FII", "Logística"},
		{"ITUB4", "Ação", "Bancário"},
		{"MXRF11", "FII", "Papel"},
		{"VALE3", "Ação", "Mineração"},
		{"KNRI11", "FII", "Misto"},
		{"VISC11", "FII", "Shoppings"},
		{"MALL11", "FII", "Shoppings"},
		{"CPTS11", "FII", "Papel"},
		{"TVRI11", "FII", "Agências de Bancos"},
		{"HGRE11", "FII", "Lajes Corporativas"},
		{"VGHF11", "FII", "Misto"},
		{"VRTA11", "FII", "Papéis"},
		{"XPML11", "FII", "Shoppings"},
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
