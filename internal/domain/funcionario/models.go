package funcionario

import (
	"encoding/json"
	"time"
)

// Funcionario is one employee record as stored in the funcionarios table.
// CPF is always held in its normalized 11-digit form; formatting is a
// presentation concern (see FormatCPF).
type Funcionario struct {
	ID             int     `json:"id"`
	EmpresaID      *int    `json:"empresa_id"`
	Nome           string  `json:"nome"`
	CPF            string  `json:"cpf"`
	RG             *string `json:"rg"`
	DataNascimento *Date   `json:"data_nascimento"`
	Funcao         *string `json:"funcao"`
	DataAdmissao   *Date   `json:"data_admissao"`
	CTPSNumero     *string `json:"ctps_numero"`
	CTPSSerie      *string `json:"ctps_serie"`
	PIS            *string `json:"pis"`
	Telefone       *string `json:"telefone"`
	Whatsapp       *string `json:"whatsapp"`
	Email          *string `json:"email"`
	Endereco       *string `json:"endereco"`
	Cidade         *string `json:"cidade"`
	Estado         *string `json:"estado"`
	CEP            *string `json:"cep"`
	Ativo          bool    `json:"ativo"`
	Supervisor     bool    `json:"supervisor"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals as
// YYYY-MM-DD, matching the DATE columns it mirrors.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = NewDate(parsed)
	return nil
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayout, value)
}

func dateFromTime(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}
