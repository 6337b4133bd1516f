package models

import "github.com/google/uuid"

// ensureID assigns a time-ordered UUID v7 when the id is still empty.
func ensureID(id *string) error {
	if *id != "" {
		return nil
	}
	v, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v.String()
	return nil
}
