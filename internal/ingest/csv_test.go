package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonvc/minipnl/internal/ledger"
)

func TestParseCommaUTF8(t *testing.T) {
	in := "Data de competência,Valor (R$),Centro de Custo 1,Nome do fornecedor/cliente,Descrição\n" +
		"15/01/2024,1000.00,Google Play Net Revenue,GOOGLE BRASIL PAGAMENTOS LTDA,x\n" +
		"2024-01-20,-200,Web Services Expenses, AWS ,y\n" +
		"\n" +
		"not a date,10,Wages Expenses,Someone,z\n"

	res, err := ParseDetailed(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if res.Separator != ',' || res.Encoding != "utf-8" {
		t.Errorf("detected %q / %s", res.Separator, res.Encoding)
	}
	if res.Rows != 3 || res.Skipped != 1 || len(res.Transactions) != 2 {
		t.Fatalf("rows=%d skipped=%d txs=%d", res.Rows, res.Skipped, len(res.Transactions))
	}

	first := res.Transactions[0]
	if !first.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) || first.Amount != 1000 {
		t.Errorf("first = %+v", first)
	}
	if first.Period() != "2024-01" {
		t.Errorf("period = %s", first.Period())
	}
	if got := res.Transactions[1].Counterparty; got != "AWS" {
		t.Errorf("counterparty not trimmed: %q", got)
	}
}

func TestParseSemicolonLatin1(t *testing.T) {
	text := "Data de competência;Valor (R$);Centro de Custo 1;Nome do fornecedor/cliente\n" +
		"05/03/2024;R$ 1.234,56;Rendimentos de Aplicações;CONTA SIMPLES\n" +
		"06/03/2024;-50,5;Marketing & Growth Expenses;Agência São Paulo\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		t.Fatal(err)
	}

	res, err := ParseDetailed(strings.NewReader(encoded))
	if err != nil {
		t.Fatal(err)
	}
	if res.Separator != ';' || res.Encoding != "windows-1252" {
		t.Errorf("detected %q / %s", res.Separator, res.Encoding)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("got %d transactions", len(res.Transactions))
	}
	if tx := res.Transactions[0]; tx.Amount != 1234.56 || tx.CostCenter != "Rendimentos de Aplicações" {
		t.Errorf("first = %+v", tx)
	}
	if tx := res.Transactions[1]; tx.Amount != -50.5 || tx.Counterparty != "Agência São Paulo" {
		t.Errorf("second = %+v", tx)
	}
}

func TestParseTabWithEnglishHeaders(t *testing.T) {
	in := "date\tamount\tcost_center\tcounterparty\n" +
		"2024-02-01\t-1,234.50\tWages Expenses\tPayroll\n"
	txs, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 || txs[0].Amount != -1234.5 {
		t.Fatalf("txs = %+v", txs)
	}
}

func TestParseKeepsUnreadableAmountAsZero(t *testing.T) {
	in := "Data de competência;Valor (R$);Centro de Custo 1;Nome do fornecedor/cliente\n" +
		"10/02/2024;n/a;Wages Expenses;Payroll\n" +
		"11/02/2024;;Office Expenses;GO OFFICES LATAM S/A\n" +
		"12/02/2024;-10,00;Travel;American Airlines\n"

	res, err := ParseDetailed(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows != 3 || res.Skipped != 0 || len(res.Transactions) != 3 {
		t.Fatalf("rows=%d skipped=%d txs=%d", res.Rows, res.Skipped, len(res.Transactions))
	}
	if tx := res.Transactions[0]; tx.Amount != 0 || tx.Counterparty != "Payroll" {
		t.Errorf("unreadable amount row = %+v", tx)
	}
	if tx := res.Transactions[1]; tx.Amount != 0 {
		t.Errorf("empty amount row = %+v", tx)
	}
	if tx := res.Transactions[2]; tx.Amount != -10 {
		t.Errorf("third = %+v", tx)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "Data de competência,Valor (R$),Centro de Custo 1\n01/01/2024,1,x\n"},
		{"no usable rows", "Data de competência,Valor (R$),Centro de Custo 1,Nome do fornecedor/cliente\nsoon,1,x,y\n"},
		{"header only", "date,amount,cost_center,counterparty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			if !errors.Is(err, ledger.ErrRejectedIngestion) {
				t.Fatalf("err = %v, want ErrRejectedIngestion", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"31/01/2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"03/25/2024", time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)},
		{"25-03-2024", time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05 00:00:00", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseDate("2024/31/31"); err == nil {
		t.Error("expected error")
	}
}
