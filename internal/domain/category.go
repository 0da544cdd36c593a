package domain

// Category is a static entry of the ticket taxonomy.
type Category struct {
	ID          string
	Name        string
	Description string
}

// DefaultCategory labels tickets when no category is supplied and none is configured.
const DefaultCategory = "General"
