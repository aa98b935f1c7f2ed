package schema

// ValidateID ensures a record id refers to a persisted row.
func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}
