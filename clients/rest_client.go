package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Filter is an equality filter on one column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter { return Filter{Column: column, Value: value} }

// Query describes a row select.
type Query struct {
	Select  string
	Filters []Filter
	Order   string
	Desc    bool
	Limit   int
}

// TableClient is the query capability of the managed backend.
type TableClient interface {
	Select(ctx context.Context, token, table string, q Query, out interface{}) error
	Insert(ctx context.Context, token, table string, rows, out interface{}) error
	Update(ctx context.Context, token, table string, filters []Filter, values, out interface{}) error
	Delete(ctx context.Context, token, table string, filters []Filter, out interface{}) error
}

// PostgRESTClient reaches tables under /rest/v1.
type PostgRESTClient struct {
	gw *GatewayClient
}

func NewPostgRESTClient(gw *GatewayClient) *PostgRESTClient {
	return &PostgRESTClient{gw: gw}
}

// Select decodes the matching rows into out, which must point to a slice.
func (c *PostgRESTClient) Select(ctx context.Context, token, table string, q Query, out interface{}) error {
	v := filterValues(q.Filters)
	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	v.Set("select", sel)
	if q.Order != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		v.Set("order", q.Order+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return c.gw.DoJSON(ctx, http.MethodGet, tablePath(table), v, token, nil, nil, out)
}

// Insert writes rows. With a non-nil out the inserted rows are read back into it.
func (c *PostgRESTClient) Insert(ctx context.Context, token, table string, rows, out interface{}) error {
	return c.gw.DoJSON(ctx, http.MethodPost, tablePath(table), nil, token, preferReturn(out), rows, out)
}

// Update patches every row matching filters with values. With a non-nil out the
// patched rows are read back into it; an empty result means nothing matched.
func (c *PostgRESTClient) Update(ctx context.Context, token, table string, filters []Filter, values, out interface{}) error {
	return c.gw.DoJSON(ctx, http.MethodPatch, tablePath(table), filterValues(filters), token, preferReturn(out), values, out)
}

// Delete removes every row matching filters, reading them back into out when non-nil.
func (c *PostgRESTClient) Delete(ctx context.Context, token, table string, filters []Filter, out interface{}) error {
	return c.gw.DoJSON(ctx, http.MethodDelete, tablePath(table), filterValues(filters), token, preferReturn(out), nil, out)
}

func preferReturn(out interface{}) http.Header {
	if out != nil {
		return http.Header{"Prefer": []string{"return=representation"}}
	}
	return http.Header{"Prefer": []string{"return=minimal"}}
}

func tablePath(table string) string { return "/rest/v1/" + url.PathEscape(table) }

func filterValues(filters []Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		v.Add(f.Column, "eq."+f.Value)
	}
	return v
}
