package client

import "encoding/json"

// Paging is a decoded view over the raw pagination object that list
// envelopes carry. The raw value is always retained; cursor semantics
// beyond the three common counters stay with the caller.
type Paging struct {
	Total      int64
	PageSize   int64
	PageNumber int64
	Raw        any
}

// PagingFrom reads the common counters out of a raw pagination value.
// Keys it does not find stay zero; the raw value is kept either way.
func PagingFrom(raw any) Paging {
	p := Paging{Raw: raw}

	obj, ok := raw.(map[string]any)
	if !ok {
		return p
	}

	p.Total = intField(obj, "total")
	p.PageSize = intField(obj, "page_size")
	p.PageNumber = intField(obj, "page_number")

	return p
}

func intField(obj map[string]any, key string) int64 {
	n, ok := obj[key].(json.Number)
	if !ok {
		return 0
	}

	i, err := n.Int64()
	if err != nil {
		return 0
	}

	return i
}
