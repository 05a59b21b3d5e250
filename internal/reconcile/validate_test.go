package reconcile

import (
	"testing"

	"reciprocas/internal/model"
)

func TestValidate_ReportsDuplicateNIT(t *testing.T) {
	t.Parallel()

	accounts := []model.AccountRecord{account("a", "1105001", "1105", "800123456", 100)}
	rules := []model.RuleEntry{rule(2, "11.05", "1105", "Efectivo")}
	directory := []model.DirectoryEntry{
		entity(4, "800123456:1", "800123456", "99", "ACME"),
		entity(9, "800123456:2", "800123456", "98", "ACME sede"),
	}

	merged := Merge(accounts, rules, directory)
	if len(merged) != 2 {
		t.Fatalf("merged=%d, want fan-out to 2", len(merged))
	}

	v := Validate(merged, rules, directory)
	if !v.Blocked() {
		t.Fatalf("expected blocked")
	}
	if len(v.DuplicateNITs) != 1 || len(v.DuplicateCodes) != 0 {
		t.Fatalf("unexpected validation: %+v", v)
	}
	d := v.DuplicateNITs[0]
	if d.Key != "800123456" || d.Count != 2 || d.Source != model.SourceDirectory {
		t.Fatalf("unexpected duplicate: %+v", d)
	}
	if len(d.Rows) != 2 || d.Rows[0] != 4 || d.Rows[1] != 9 {
		t.Fatalf("rows=%v", d.Rows)
	}
	if got, want := d.Message(), "El NIT 800123456 está repetido. Deja solo uno en el archivo de Directorio"; got != want {
		t.Fatalf("message=%q", got)
	}
}

func TestValidate_ReportsEveryDuplicateCode(t *testing.T) {
	t.Parallel()

	accounts := []model.AccountRecord{
		account("a", "1105001", "1105", "1", 1),
		account("b", "4805001", "4805", "1", 2),
	}
	rules := []model.RuleEntry{
		rule(2, "11.05", "1105", "Efectivo"),
		rule(3, "11.05", "1105", "Efectivo"),
		rule(4, "48.05", "4805", "Financieros"),
		rule(5, "48.05", "4805", "Financieros"),
	}
	directory := []model.DirectoryEntry{entity(2, "1", "1", "9", "X")}

	v := Validate(Merge(accounts, rules, directory), rules, directory)
	if len(v.DuplicateCodes) != 2 {
		t.Fatalf("duplicate codes=%d, want 2", len(v.DuplicateCodes))
	}
	if v.DuplicateCodes[0].Key != "11.05" || v.DuplicateCodes[1].Key != "48.05" {
		t.Fatalf("unexpected order: %+v", v.DuplicateCodes)
	}
	if got := len(v.All()); got != 2 {
		t.Fatalf("All()=%d", got)
	}
}

func TestValidate_IgnoresDuplicatesOutsideResult(t *testing.T) {
	t.Parallel()

	accounts := []model.AccountRecord{account("a", "1105001", "1105", "800123456", 100)}
	rules := []model.RuleEntry{
		rule(2, "11.05", "1105", "Efectivo"),
		rule(3, "24.01", "2401", "Proveedores"),
		rule(4, "24.01", "2401", "Proveedores"),
		rule(5, "3.1", "31", "Patrimonio"),
		rule(6, "3.1", "31", "Patrimonio"),
	}
	directory := []model.DirectoryEntry{
		entity(2, "800123456", "800123456", "99", "ACME"),
		entity(3, "555:1", "555", "5", "Duplicada"),
		entity(4, "555:2", "555", "5", "Duplicada"),
	}

	v := Validate(Merge(accounts, rules, directory), rules, directory)
	if v.Blocked() {
		t.Fatalf("out-of-universe duplicates must not block: %+v", v)
	}
}

func TestValidate_EmptyMerge(t *testing.T) {
	t.Parallel()

	rules := []model.RuleEntry{rule(2, "11.05", "1105", "a"), rule(3, "11.05", "1105", "a")}
	v := Validate(nil, rules, nil)
	if v.Blocked() {
		t.Fatalf("nothing merged, nothing to block")
	}
}
