package content

// NotFoundError is returned when a document doesn't exist in the store.
type NotFoundError struct {
	Collection Collection
	Ref        string
}

func (e NotFoundError) Error() string {
	if e.Ref == "" {
		return "document not found"
	}

	return "document not found: " + string(e.Collection) + "/" + e.Ref
}
