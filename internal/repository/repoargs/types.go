package repoargs

type RepositoryName string

const (
	UserRepoName  RepositoryName = "user"
	CheckRepoName RepositoryName = "check"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

type Pagination struct {
	Page  uint
	Limit uint
}

// Normalize приводит параметры пагинации к допустимым значениям: страница не меньше
// первой, лимит в рамках [1, MaxPageLimit].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() uint {
	return (p.Page - 1) * p.Limit
}

type Page[T any] struct {
	Items []T
	Total int64
	Page  uint
	Limit uint
}
