package blog

type SortField struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}

// Asc sorts field in ascending order.
func Asc(field string) SortField {
	return SortField{Field: field, Direction: 1}
}

// Desc sorts field in descending order.
func Desc(field string) SortField {
	return SortField{Field: field, Direction: -1}
}

// Document is implemented by every entity stored through the generic
// repositories. The table name doubles as the Mongo collection name.
type Document interface {
	GetTableName() string
}
