// internal/app/store/storeutil/storeutil.go
package storeutil

// MaxPerPage caps page sizes so a single request cannot pull the whole
// collection.
const MaxPerPage = 200

// Paginate converts a 1-based page and page size into skip/limit values.
// Out-of-range inputs fall back to page 1 and a page size of 50.
func Paginate(page, perPage int) (skip, limit int64) {
	if perPage <= 0 {
		perPage = 50
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	return int64(page-1) * int64(perPage), int64(perPage)
}
