package procurement

import "github.com/constructiq/docstore"

// Page is the list-response envelope every collection endpoint returns.
type Page struct {
	Items      []docstore.Document `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

func paginate(items []docstore.Document, total int64, page, pageSize int) Page {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// pageWindow converts 1-based page/pageSize into the store's skip/limit.
func pageWindow(page, pageSize int) (skip, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}
