package funcionario

import (
	"net/mail"
	"sort"
	"strings"
)

// ValidateCreate checks a full candidate record and returns the normalized
// record ready for insert. Flags default to ativo=true, supervisor=false.
func ValidateCreate(in Input) (*Funcionario, error) {
	f := &Funcionario{Ativo: true, Supervisor: false}
	v := &issueList{}
	applyInput(f, in, v, true)
	if err := v.err(); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyUpdate validates only the supplied fields of a partial payload and
// folds them into the existing record. Unsupplied fields are untouched.
func ApplyUpdate(f *Funcionario, in Input) error {
	v := &issueList{}
	applyInput(f, in, v, false)
	return v.err()
}

func applyInput(f *Funcionario, in Input, v *issueList, create bool) {
	if create || in.Nome.Set {
		nome := strings.TrimSpace(deref(in.Nome.Value))
		if nome == "" {
			v.add("nome", "is required")
		} else {
			f.Nome = nome
		}
	}

	if create || in.CPF.Set {
		raw := strings.TrimSpace(deref(in.CPF.Value))
		if raw == "" {
			v.add("cpf", "is required")
		} else if normalized, err := NormalizeCPF(raw); err != nil {
			v.add("cpf", err.Error())
		} else {
			f.CPF = normalized
		}
	}

	if in.Email.Set {
		f.Email = v.email("email", in.Email.Value)
	}
	if in.DataNascimento.Set {
		f.DataNascimento = v.date("data_nascimento", in.DataNascimento)
	}
	if in.DataAdmissao.Set {
		f.DataAdmissao = v.date("data_admissao", in.DataAdmissao)
	}
	if in.Estado.Set {
		f.Estado = v.estado("estado", in.Estado.Value)
	}

	if in.RG.Set {
		f.RG = trimmedOrNil(in.RG.Value)
	}
	if in.Funcao.Set {
		f.Funcao = trimmedOrNil(in.Funcao.Value)
	}
	if in.CTPSNumero.Set {
		f.CTPSNumero = trimmedOrNil(in.CTPSNumero.Value)
	}
	if in.CTPSSerie.Set {
		f.CTPSSerie = trimmedOrNil(in.CTPSSerie.Value)
	}
	if in.PIS.Set {
		f.PIS = trimmedOrNil(in.PIS.Value)
	}
	if in.Telefone.Set {
		f.Telefone = trimmedOrNil(in.Telefone.Value)
	}
	if in.Whatsapp.Set {
		f.Whatsapp = trimmedOrNil(in.Whatsapp.Value)
	}
	if in.Endereco.Set {
		f.Endereco = trimmedOrNil(in.Endereco.Value)
	}
	if in.Cidade.Set {
		f.Cidade = trimmedOrNil(in.Cidade.Value)
	}
	if in.CEP.Set {
		f.CEP = trimmedOrNil(in.CEP.Value)
	}
	if in.EmpresaID.Set {
		f.EmpresaID = in.EmpresaID.Value
	}

	if in.Ativo.Set && in.Ativo.Value != nil {
		f.Ativo = *in.Ativo.Value
	}
	if in.Supervisor.Set && in.Supervisor.Value != nil {
		f.Supervisor = *in.Supervisor.Value
	}
}

type issueList struct {
	issues []Issue
}

func (v *issueList) add(field, reason string) {
	v.issues = append(v.issues, Issue{Field: field, Reason: reason})
}

// email normalizes empty strings to nil; anything else must parse as a
// bare address.
func (v *issueList) email(field string, value *string) *string {
	trimmed := strings.TrimSpace(deref(value))
	if trimmed == "" {
		return nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		v.add(field, "must be a valid email address")
		return nil
	}
	return &trimmed
}

func (v *issueList) date(field string, value OptionalDate) *Date {
	if value.Null {
		return nil
	}
	trimmed := strings.TrimSpace(value.Raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := ParseDate(trimmed)
	if err != nil {
		v.add(field, "must be a valid date in YYYY-MM-DD format")
		return nil
	}
	d := NewDate(parsed)
	return &d
}

func (v *issueList) estado(field string, value *string) *string {
	trimmed := strings.ToUpper(strings.TrimSpace(deref(value)))
	if trimmed == "" {
		return nil
	}
	if len(trimmed) != 2 || trimmed[0] < 'A' || trimmed[0] > 'Z' || trimmed[1] < 'A' || trimmed[1] > 'Z' {
		v.add(field, "must be a two-letter state code")
		return nil
	}
	return &trimmed
}

func (v *issueList) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	out := make([]Issue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return &ValidationError{Issues: out}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func trimmedOrNil(value *string) *string {
	trimmed := strings.TrimSpace(deref(value))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
