package funcionario

import "context"

// RecordStore is the persistence surface the service orchestrates. It is
// satisfied by *Store and stubbed in tests.
type RecordStore interface {
	Get(ctx context.Context, id int) (*Funcionario, error)
	List(ctx context.Context, p ListParams) ([]Funcionario, error)
	Count(ctx context.Context, p ListParams) (int, error)
	Create(ctx context.Context, f *Funcionario) (*Funcionario, error)
	Update(ctx context.Context, id int, f *Funcionario) (*Funcionario, error)
	Delete(ctx context.Context, id int) error
	CPFExists(ctx context.Context, cpf string, excludeID int) (bool, error)
}

// ListResult is one page of matching records plus the total disregarding
// pagination.
type ListResult struct {
	Records    []Funcionario `json:"records"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

type Service struct {
	store RecordStore
}

func NewService(store RecordStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, p ListParams) (*ListResult, error) {
	p.normalize()

	records, err := s.store.List(ctx, p)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx, p)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Records:    records,
		Total:      total,
		Page:       p.Page,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}, nil
}

// Export returns the full filtered set for report generation, bounded by
// max, in the same order the listing would use.
func (s *Service) Export(ctx context.Context, p ListParams, max int) ([]Funcionario, error) {
	p.Page = 1
	p.Limit = max
	if p.Limit <= 0 {
		p.Limit = MaxPageSize
	}
	return s.store.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int) (*Funcionario, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Funcionario, error) {
	f, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.CPFExists(ctx, f.CPF, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{Message: "CPF já cadastrado"}
	}

	created, err := s.store.Create(ctx, f)
	if isUniqueViolation(err) {
		// Lost the race between the pre-check and the insert; the
		// constraint is the authoritative guard.
		return nil, &ConflictError{Message: "CPF já cadastrado"}
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, in Input) (*Funcionario, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ApplyUpdate(current, in); err != nil {
		return nil, err
	}

	if in.CPF.Set {
		exists, err := s.store.CPFExists(ctx, current.CPF, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &ConflictError{Message: "CPF já cadastrado para outro funcionário"}
		}
	}

	updated, err := s.store.Update(ctx, id, current)
	if isUniqueViolation(err) {
		return nil, &ConflictError{Message: "CPF já cadastrado para outro funcionário"}
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}
