package imap

// totalPages computes ceil(totalMessages / pageSize).
func totalPages(totalMessages, pageSize int) int {
	if pageSize <= 0 || totalMessages <= 0 {
		return 0
	}
	return (totalMessages + pageSize - 1) / pageSize
}

// pageIDs returns the sequence ids of one page, newest first. Ids are
// per-folder sequence numbers 1..totalMessages, assumed monotonically
// increasing with arrival, so the id-descending sequence is newest-first and
// page 1 holds the newest pageSize ids. Out-of-range pages yield an empty
// slice.
func pageIDs(totalMessages, page, pageSize int) []uint32 {
	if totalMessages <= 0 || page < 1 || pageSize <= 0 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= totalMessages {
		return nil
	}

	end := start + pageSize
	if end > totalMessages {
		end = totalMessages
	}

	ids := make([]uint32, 0, end-start)
	for i := start; i < end; i++ {
		ids = append(ids, uint32(totalMessages-i))
	}
	return ids
}
