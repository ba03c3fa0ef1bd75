package funcionario

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `id, empresa_id, nome, cpf, rg, data_nascimento, funcao, data_admissao,
  ctps_numero, ctps_serie, pis, telefone, whatsapp, email, endereco, cidade, estado, cep,
  ativo, supervisor`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id int) (*Funcionario, error) {
	row := s.db.QueryRow(ctx, `
    SELECT `+selectColumns+`
    FROM funcionarios
    WHERE id = $1
  `, id)
	f, err := scanFuncionario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) List(ctx context.Context, p ListParams) ([]Funcionario, error) {
	sql, args := p.listSQL()
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Funcionario, 0, p.Limit)
	for rows.Next() {
		f, err := scanFuncionario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// Count runs the same predicate as List but disregards pagination.
func (s *Store) Count(ctx context.Context, p ListParams) (int, error) {
	sql, args := p.countSQL()
	var total int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) Create(ctx context.Context, f *Funcionario) (*Funcionario, error) {
	row := s.db.QueryRow(ctx, `
    INSERT INTO funcionarios (empresa_id, nome, cpf, rg, data_nascimento, funcao, data_admissao,
      ctps_numero, ctps_serie, pis, telefone, whatsapp, email, endereco, cidade, estado, cep,
      ativo, supervisor)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
    RETURNING `+selectColumns+`
  `,
		f.EmpresaID, f.Nome, f.CPF, f.RG, f.DataNascimento.timePtr(), f.Funcao, f.DataAdmissao.timePtr(),
		f.CTPSNumero, f.CTPSSerie, f.PIS, f.Telefone, f.Whatsapp, f.Email, f.Endereco, f.Cidade,
		f.Estado, f.CEP, f.Ativo, f.Supervisor,
	)
	return scanFuncionario(row)
}

func (s *Store) Update(ctx context.Context, id int, f *Funcionario) (*Funcionario, error) {
	row := s.db.QueryRow(ctx, `
    UPDATE funcionarios
    SET empresa_id = $1,
        nome = $2,
        cpf = $3,
        rg = $4,
        data_nascimento = $5,
        funcao = $6,
        data_admissao = $7,
        ctps_numero = $8,
        ctps_serie = $9,
        pis = $10,
        telefone = $11,
        whatsapp = $12,
        email = $13,
        endereco = $14,
        cidade = $15,
        estado = $16,
        cep = $17,
        ativo = $18,
        supervisor = $19
    WHERE id = $20
    RETURNING `+selectColumns+`
  `,
		f.EmpresaID, f.Nome, f.CPF, f.RG, f.DataNascimento.timePtr(), f.Funcao, f.DataAdmissao.timePtr(),
		f.CTPSNumero, f.CTPSSerie, f.PIS, f.Telefone, f.Whatsapp, f.Email, f.Endereco, f.Cidade,
		f.Estado, f.CEP, f.Ativo, f.Supervisor, id,
	)
	updated, err := scanFuncionario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	cmd, err := s.db.Exec(ctx, "DELETE FROM funcionarios WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CPFExists reports whether another record already holds the normalized
// CPF. excludeID keeps a record's own id out of the check on update.
func (s *Store) CPFExists(ctx context.Context, cpf string, excludeID int) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM funcionarios WHERE cpf = $1 AND id <> $2)
  `, cpf, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFuncionario(row rowScanner) (*Funcionario, error) {
	var f Funcionario
	var nascimento, admissao *time.Time
	err := row.Scan(
		&f.ID, &f.EmpresaID, &f.Nome, &f.CPF, &f.RG, &nascimento, &f.Funcao, &admissao,
		&f.CTPSNumero, &f.CTPSSerie, &f.PIS, &f.Telefone, &f.Whatsapp, &f.Email,
		&f.Endereco, &f.Cidade, &f.Estado, &f.CEP, &f.Ativo, &f.Supervisor,
	)
	if err != nil {
		return nil, err
	}
	f.DataNascimento = dateFromTime(nascimento)
	f.DataAdmissao = dateFromTime(admissao)
	return &f, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
