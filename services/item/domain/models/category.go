package models

// Category classifies items. Read-only in this context.
type Category struct {
	ID   int64
	Name string
}
