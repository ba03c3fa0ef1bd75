package funcionario

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListParams describes one filtered, sorted, paginated listing request.
type ListParams struct {
	Search    string
	Funcao    string
	Ativo     *bool
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// sortColumns is the allow-list of request sort names. Anything outside it
// falls back to the implicit newest-first ordering; request strings are
// never resolved against the schema.
var sortColumns = map[string]string{
	"id":              "id",
	"nome":            "nome",
	"cpf":             "cpf",
	"rg":              "rg",
	"funcao":          "funcao",
	"email":           "email",
	"telefone":        "telefone",
	"cidade":          "cidade",
	"estado":          "estado",
	"cep":             "cep",
	"data_nascimento": "data_nascimento",
	"data_admissao":   "data_admissao",
	"ativo":           "ativo",
	"supervisor":      "supervisor",
}

func (p ListParams) orderClause() string {
	column, ok := sortColumns[p.SortBy]
	if !ok {
		return "ORDER BY id DESC"
	}
	direction := "DESC"
	if strings.EqualFold(p.SortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// whereClause builds the conjunctive predicate shared by the bounded select
// and the aggregate count. The search term OR-matches nome, cpf, email and
// funcao as a case-insensitive substring.
func (p ListParams) whereClause() (string, []any) {
	var conditions []string
	var args []any

	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(nome ILIKE $%d OR cpf ILIKE $%d OR email ILIKE $%d OR funcao ILIKE $%d)", n, n, n, n))
	}
	if p.Funcao != "" {
		args = append(args, p.Funcao)
		conditions = append(conditions, fmt.Sprintf("funcao = $%d", len(args)))
	}
	if p.Ativo != nil {
		args = append(args, *p.Ativo)
		conditions = append(conditions, fmt.Sprintf("ativo = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (p ListParams) listSQL() (string, []any) {
	where, args := p.whereClause()
	args = append(args, p.Limit, p.offset())
	sql := fmt.Sprintf("SELECT %s FROM funcionarios %s %s LIMIT $%d OFFSET $%d",
		selectColumns, where, p.orderClause(), len(args)-1, len(args))
	return strings.Join(strings.Fields(sql), " "), args
}

func (p ListParams) countSQL() (string, []any) {
	where, args := p.whereClause()
	sql := strings.TrimSpace("SELECT COUNT(*) FROM funcionarios " + where)
	return sql, args
}
