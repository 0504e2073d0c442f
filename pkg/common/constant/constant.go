package constant

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)
