package itf

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/iota-uz/ipr/pkg/application"
	"github.com/iota-uz/ipr/pkg/constants"
	"github.com/iota-uz/ipr/pkg/middleware"
)

// SuiteBuilder assembles an HTTP test suite over a fresh application.
type SuiteBuilder struct {
	t       testing.TB
	context *TestContext
}

func NewSuiteBuilder(t testing.TB) *SuiteBuilder {
	return &SuiteBuilder{t: t, context: NewTestContext()}
}

func (b *SuiteBuilder) WithModules(modules ...application.Module) *SuiteBuilder {
	b.context.WithModules(modules...)
	return b
}

func (b *SuiteBuilder) WithLanguage(code string) *SuiteBuilder {
	b.context.WithLanguage(code)
	return b
}

func (b *SuiteBuilder) WithSupportedLanguages(codes ...string) *SuiteBuilder {
	b.context.WithSupportedLanguages(codes...)
	return b
}

func (b *SuiteBuilder) Build() *Suite {
	b.t.Helper()
	env := b.context.Build(b.t)
	router := mux.NewRouter()
	router.Use(
		middleware.Provide(constants.AppKey, env.App),
		middleware.WithLogger(env.Logger, middleware.DefaultLoggerOptions()),
		middleware.RequestParams(middleware.DefaultLoggerOptions().RealIPHeader),
	)
	router.Use(env.App.Middleware()...)
	return &Suite{t: b.t, env: env, router: router}
}

// HTTP builds a suite with the given modules and every controller they register.
func HTTP(t testing.TB, modules ...application.Module) *Suite {
	t.Helper()
	suite := NewSuiteBuilder(t).WithModules(modules...).Build()
	suite.Register(suite.env.App.Controllers()...)
	return suite
}

// Suite sends requests through a router the way the server would.
type Suite struct {
	t      testing.TB
	env    *TestEnvironment
	router *mux.Router
}

func (s *Suite) Env() *TestEnvironment {
	return s.env
}

func (s *Suite) Environment() *TestEnvironment {
	return s.env
}

func (s *Suite) Register(controllers ...application.Controller) *Suite {
	for _, c := range controllers {
		c.Register(s.router)
	}
	return s
}

func (s *Suite) Handler() http.Handler {
	return s.router
}

func (s *Suite) newRequest(method, path string) *Request {
	return &Request{suite: s, method: method, path: path, headers: http.Header{}, query: url.Values{}}
}

func (s *Suite) GET(path string) *Request    { return s.newRequest(http.MethodGet, path) }
func (s *Suite) POST(path string) *Request   { return s.newRequest(http.MethodPost, path) }
func (s *Suite) DELETE(path string) *Request { return s.newRequest(http.MethodDelete, path) }

// RunCases runs each case as a subtest.
func (s *Suite) RunCases(cases []*TestCase) {
	for _, tc := range cases {
		if t, ok := s.t.(*testing.T); ok {
			t.Run(tc.name, func(t *testing.T) {
				tc.run(t, s)
			})
			continue
		}
		tc.run(s.t, s)
	}
}

type Request struct {
	suite   *Suite
	method  string
	path    string
	query   url.Values
	headers http.Header
	body    []byte
}

func (r *Request) WithQuery(values map[string]string) *Request {
	for k, v := range values {
		r.query.Set(k, v)
	}
	return r
}

func (r *Request) Header(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

func (r *Request) HTMX() *Request {
	return r.Header("HX-Request", "true")
}

func (r *Request) Cookie(c *http.Cookie) *Request {
	r.headers.Add("Cookie", c.String())
	return r
}

func (r *Request) Form(values url.Values) *Request {
	r.body = []byte(values.Encode())
	return r.Header("Content-Type", "application/x-www-form-urlencoded")
}

func (r *Request) JSON(payload any) *Request {
	data, err := json.Marshal(payload)
	if err != nil {
		r.suite.t.Fatalf("marshal request body: %v", err)
	}
	r.body = data
	return r.Header("Content-Type", "application/json")
}

// Raw sends data as is with the given content type.
func (r *Request) Raw(contentType string, data []byte) *Request {
	r.body = data
	return r.Header("Content-Type", contentType)
}

func (r *Request) build() *http.Request {
	target := r.path
	if len(r.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.query.Encode()
	}
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, target, body)
	for k, values := range r.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return req
}

// Expect performs the request and returns the response for assertions.
func (r *Request) Expect(t testing.TB) *Response {
	t.Helper()
	rec := httptest.NewRecorder()
	r.suite.router.ServeHTTP(rec, r.build())
	return &Response{t: t, rec: rec}
}

func (r *Request) Assert(t testing.TB) *Response {
	t.Helper()
	return r.Expect(t)
}

type Response struct {
	t   testing.TB
	rec *httptest.ResponseRecorder
}

func (r *Response) Status(code int) *Response {
	r.t.Helper()
	require.Equal(r.t, code, r.rec.Code, "unexpected status, body: %s", r.rec.Body.String())
	return r
}

func (r *Response) ExpectStatus(code int) *Response { r.t.Helper(); return r.Status(code) }
func (r *Response) ExpectOK() *Response             { r.t.Helper(); return r.Status(http.StatusOK) }
func (r *Response) ExpectBadRequest() *Response     { r.t.Helper(); return r.Status(http.StatusBadRequest) }
func (r *Response) ExpectNotFound() *Response       { r.t.Helper(); return r.Status(http.StatusNotFound) }

func (r *Response) ExpectBodyContains(s string) *Response {
	r.t.Helper()
	require.Contains(r.t, r.rec.Body.String(), s)
	return r
}

func (r *Response) ExpectHeader(key, value string) *Response {
	r.t.Helper()
	require.Equal(r.t, value, r.rec.Header().Get(key))
	return r
}

func (r *Response) Header(key string) string {
	return r.rec.Header().Get(key)
}

func (r *Response) Cookies() []*http.Cookie {
	return r.rec.Result().Cookies()
}

func (r *Response) Body() string {
	return r.rec.Body.String()
}

func (r *Response) Bytes() []byte {
	return r.rec.Body.Bytes()
}

// ExpectJSON decodes the body into v.
func (r *Response) ExpectJSON(v any) *Response {
	r.t.Helper()
	require.Contains(r.t, r.rec.Header().Get("Content-Type"), "application/json")
	require.NoError(r.t, json.Unmarshal(r.rec.Body.Bytes(), v))
	return r
}

func (r *Response) ExpectHTML() *HTMLAssertion {
	r.t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(r.rec.Body.String()))
	require.NoError(r.t, err)
	return &HTMLAssertion{t: r.t, doc: doc}
}

// HTMLAssertion runs XPath assertions against a response body.
type HTMLAssertion struct {
	t   testing.TB
	doc *html.Node
}

func (h *HTMLAssertion) ExpectElement(xpath string) *HTMLAssertion {
	h.t.Helper()
	require.NotNil(h.t, htmlquery.FindOne(h.doc, xpath), "expected element %s", xpath)
	return h
}

func (h *HTMLAssertion) ExpectNoElement(xpath string) *HTMLAssertion {
	h.t.Helper()
	require.Nil(h.t, htmlquery.FindOne(h.doc, xpath), "unexpected element %s", xpath)
	return h
}

func (h *HTMLAssertion) ExpectText(xpath, text string) *HTMLAssertion {
	h.t.Helper()
	node := htmlquery.FindOne(h.doc, xpath)
	require.NotNil(h.t, node, "expected element %s", xpath)
	require.Equal(h.t, text, strings.TrimSpace(htmlquery.InnerText(node)))
	return h
}

func (h *HTMLAssertion) Elements(xpath string) []*html.Node {
	return htmlquery.Find(h.doc, xpath)
}

func (h *HTMLAssertion) Attr(xpath, name string) string {
	h.t.Helper()
	node := htmlquery.FindOne(h.doc, xpath)
	require.NotNil(h.t, node, "expected element %s", xpath)
	return htmlquery.SelectAttr(node, name)
}
