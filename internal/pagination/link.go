package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LinkHeader renders RFC 5988 links for a page, in the order next, prev,
// first, last. Links that do not apply are omitted; a single page yields "".
func LinkHeader(base *url.URL, number, size, totalPages int) string {
	var links []string
	add := func(page int, rel string) {
		links = append(links, fmt.Sprintf("<%s>; rel=%q", pageURL(base, page, size), rel))
	}

	hasNext := number+1 < totalPages
	hasPrev := number > 0
	if hasNext {
		add(number+1, "next")
	}
	if hasPrev {
		add(number-1, "prev")
	}
	if hasPrev {
		add(0, "first")
	}
	if hasNext {
		add(totalPages-1, "last")
	}
	return strings.Join(links, ", ")
}

// Link renders the Link header for p.
func Link[T any](base *url.URL, p Page[T]) string {
	return LinkHeader(base, p.Number, p.Size, p.TotalPages())
}

func pageURL(base *url.URL, page, size int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String()
}
