package dto

// Paginated wraps list responses. All list endpoints paginate by
// limit/offset.
type Paginated[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func NewPaginated[T any](data []T, total int64, limit, offset int) *Paginated[T] {
	return &Paginated[T]{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
