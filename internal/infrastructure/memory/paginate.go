package memory

type window struct {
	start, end int
}

// paginate clamps offset/limit to [0,total]. A non-positive limit means no limit.
func paginate(total, offset, limit int) window {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return window{start: offset, end: end}
}
