package models

import "fmt"

// DeleteNonceScope returns the per-record scope for single-delete links.
func DeleteNonceScope(id int64) string {
	return fmt.Sprintf("bm_delete_booking_%d", id)
}

// EditNonceScope returns the per-record scope for the edit form.
func EditNonceScope(id int64) string {
	return fmt.Sprintf("bm_edit_booking_%d", id)
}
