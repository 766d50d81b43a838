package itf

import (
	"net/http"
	"net/url"
	"testing"
)

// TestCase is a declarative request with an expected outcome.
type TestCase struct {
	name     string
	method   string
	path     string
	query    map[string]string
	form     url.Values
	headers  map[string]string
	status   int
	contains []string
}

func newCase(method, path string) *TestCase {
	return &TestCase{
		name:    method + " " + path,
		method:  method,
		path:    path,
		headers: map[string]string{},
		status:  http.StatusOK,
	}
}

func GET(path string) *TestCase  { return newCase(http.MethodGet, path) }
func POST(path string) *TestCase { return newCase(http.MethodPost, path) }

func Cases(cases ...*TestCase) []*TestCase {
	return cases
}

func (c *TestCase) Named(name string) *TestCase {
	c.name = name
	return c
}

func (c *TestCase) WithQuery(q map[string]string) *TestCase {
	c.query = q
	return c
}

func (c *TestCase) WithForm(form url.Values) *TestCase {
	c.form = form
	return c
}

func (c *TestCase) Header(key, value string) *TestCase {
	c.headers[key] = value
	return c
}

func (c *TestCase) HTMX() *TestCase {
	return c.Header("HX-Request", "true")
}

func (c *TestCase) ExpectStatus(code int) *TestCase {
	c.status = code
	return c
}

func (c *TestCase) ExpectOK() *TestCase {
	return c.ExpectStatus(http.StatusOK)
}

func (c *TestCase) ExpectBodyContains(s string) *TestCase {
	c.contains = append(c.contains, s)
	return c
}

func (c *TestCase) run(t testing.TB, s *Suite) {
	t.Helper()
	req := s.newRequest(c.method, c.path)
	if c.query != nil {
		req.WithQuery(c.query)
	}
	if c.form != nil {
		req.Form(c.form)
	}
	for k, v := range c.headers {
		req.Header(k, v)
	}
	resp := req.Expect(t).Status(c.status)
	for _, want := range c.contains {
		resp.ExpectBodyContains(want)
	}
}
