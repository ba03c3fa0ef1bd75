package funcionario

import (
	"bytes"
	"encoding/json"
)

// Input is a candidate record as submitted by a client: full for create,
// partial for update. Every field tracks whether it appeared in the JSON
// body at all, so "clear this field" (explicit null or empty string) stays
// distinguishable from "field not supplied".
type Input struct {
	EmpresaID      OptionalInt    `json:"empresa_id"`
	Nome           OptionalString `json:"nome"`
	CPF            OptionalString `json:"cpf"`
	RG             OptionalString `json:"rg"`
	DataNascimento OptionalDate   `json:"data_nascimento"`
	Funcao         OptionalString `json:"funcao"`
	DataAdmissao   OptionalDate   `json:"data_admissao"`
	CTPSNumero     OptionalString `json:"ctps_numero"`
	CTPSSerie      OptionalString `json:"ctps_serie"`
	PIS            OptionalString `json:"pis"`
	Telefone       OptionalString `json:"telefone"`
	Whatsapp       OptionalString `json:"whatsapp"`
	Email          OptionalString `json:"email"`
	Endereco       OptionalString `json:"endereco"`
	Cidade         OptionalString `json:"cidade"`
	Estado         OptionalString `json:"estado"`
	CEP            OptionalString `json:"cep"`
	Ativo          OptionalBool   `json:"ativo"`
	Supervisor     OptionalBool   `json:"supervisor"`
}

var jsonNull = []byte("null")

type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

type OptionalBool struct {
	Set   bool
	Value *bool
}

func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Value = nil
		return nil
	}
	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Value = nil
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// OptionalDate keeps the raw string so that an unparseable date becomes a
// per-field validation issue instead of failing the whole body decode.
type OptionalDate struct {
	Set  bool
	Null bool
	Raw  string
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Raw)
}
