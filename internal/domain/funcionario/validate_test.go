package funcionario

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func decodeInput(t *testing.T, body string) Input {
	t.Helper()
	var in Input
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode input: %v", err)
	}
	return in
}

func validationIssues(t *testing.T, err error) []Issue {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Issues
}

func TestValidateCreateDefaults(t *testing.T) {
	in := decodeInput(t, `{"nome":"  Maria Souza  ","cpf":"529.982.247-25"}`)

	f, err := ValidateCreate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Nome != "Maria Souza" {
		t.Fatalf("nome not trimmed: %q", f.Nome)
	}
	if f.CPF != "52998224725" {
		t.Fatalf("cpf not normalized: %q", f.CPF)
	}
	if !f.Ativo {
		t.Fatal("ativo should default to true")
	}
	if f.Supervisor {
		t.Fatal("supervisor should default to false")
	}
	if f.Email != nil || f.DataNascimento != nil {
		t.Fatal("absent optional fields should stay nil")
	}
}

func TestValidateCreateMissingRequired(t *testing.T) {
	_, err := ValidateCreate(decodeInput(t, `{}`))
	issues := validationIssues(t, err)

	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	// Sorted by field name.
	if issues[0].Field != "cpf" || issues[1].Field != "nome" {
		t.Fatalf("unexpected issue order: %+v", issues)
	}
}

func TestValidateCreateCollectsEveryIssue(t *testing.T) {
	in := decodeInput(t, `{
    "nome": "   ",
    "cpf": "11111111111",
    "email": "not-an-email",
    "data_admissao": "20/01/2024",
    "estado": "XYZ"
  }`)

	_, err := ValidateCreate(in)
	issues := validationIssues(t, err)
	if len(issues) != 5 {
		t.Fatalf("expected 5 issues, got %+v", issues)
	}
	fields := map[string]bool{}
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	for _, field := range []string{"nome", "cpf", "email", "data_admissao", "estado"} {
		if !fields[field] {
			t.Fatalf("missing issue for %s in %+v", field, issues)
		}
	}
}

func TestValidateCreateNormalizesOptionalFields(t *testing.T) {
	in := decodeInput(t, `{
    "nome": "João Lima",
    "cpf": "111.444.777-35",
    "email": "",
    "data_nascimento": "1990-05-20",
    "funcao": "  Pedreiro ",
    "estado": "sp",
    "rg": ""
  }`)

	f, err := ValidateCreate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Email != nil {
		t.Fatal("empty email should normalize to nil")
	}
	if f.RG != nil {
		t.Fatal("empty rg should normalize to nil")
	}
	if f.DataNascimento == nil || f.DataNascimento.Format("2006-01-02") != "1990-05-20" {
		t.Fatalf("data_nascimento = %v", f.DataNascimento)
	}
	if f.Funcao == nil || *f.Funcao != "Pedreiro" {
		t.Fatalf("funcao = %v", f.Funcao)
	}
	if f.Estado == nil || *f.Estado != "SP" {
		t.Fatalf("estado = %v", f.Estado)
	}
}

func TestApplyUpdatePartial(t *testing.T) {
	email := "maria@example.com"
	funcao := "Mestre de obras"
	f := &Funcionario{
		ID:     7,
		Nome:   "Maria Souza",
		CPF:    "52998224725",
		Email:  &email,
		Funcao: &funcao,
		Ativo:  true,
	}

	if err := ApplyUpdate(f, decodeInput(t, `{"ativo":false}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Ativo {
		t.Fatal("ativo should be false")
	}
	if f.Nome != "Maria Souza" || f.CPF != "52998224725" {
		t.Fatal("unsupplied fields must stay untouched")
	}
	if f.Email == nil || *f.Email != email {
		t.Fatal("email must stay untouched")
	}
	if f.Funcao == nil || *f.Funcao != funcao {
		t.Fatal("funcao must stay untouched")
	}
}

func TestApplyUpdateClearsDateWithNull(t *testing.T) {
	d := NewDate(mustParseDate(t, "2020-01-15"))
	f := &Funcionario{Nome: "X", CPF: "52998224725", DataAdmissao: &d}

	if err := ApplyUpdate(f, decodeInput(t, `{"data_admissao":null}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.DataAdmissao != nil {
		t.Fatal("null should clear the date")
	}
}

func TestApplyUpdateRejectsClearingRequired(t *testing.T) {
	f := &Funcionario{Nome: "X", CPF: "52998224725"}

	err := ApplyUpdate(f, decodeInput(t, `{"nome":null,"cpf":""}`))
	issues := validationIssues(t, err)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	if f.Nome != "X" || f.CPF != "52998224725" {
		t.Fatal("record must not change when validation fails")
	}
}

func TestApplyUpdateNormalizesCPF(t *testing.T) {
	f := &Funcionario{Nome: "X", CPF: "52998224725"}

	if err := ApplyUpdate(f, decodeInput(t, `{"cpf":"111.444.777-35"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.CPF != "11144477735" {
		t.Fatalf("cpf = %q", f.CPF)
	}
}

func mustParseDate(t *testing.T, value string) (parsed time.Time) {
	t.Helper()
	parsed, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}
