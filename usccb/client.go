// Package usccb queries the daily readings published at
// https://bible.usccb.org/bible/readings/ and resolves them into mass.Mass
// records. The client owns the shared HTTP transport; every parse and
// assembly step is a pure transformation, so any number of queries may run
// concurrently against one client.
package usccb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/lectio/mass"
)

// DefaultBaseURL is the fixed external address readings are published at.
const DefaultBaseURL = "https://bible.usccb.org/bible/readings/"

const defaultTimeout = 30 * time.Second

const userAgent = "lectio/1.0 (+https://github.com/pevans/lectio)"

// urlDateLayout is the date encoding in readings URLs (MMDDYY).
const urlDateLayout = "010206"

// readingsLinkPattern matches links to readings pages and captures the date
// and the optional mass-type label (e.g. 040625-Vigil.cfm).
var readingsLinkPattern = regexp.MustCompile(`(?i)readings/(\d{6})-?([A-Za-z]*)\.cfm$`)

// Client retrieves and resolves daily readings. The zero value is not
// usable; construct one with New. Close releases the underlying transport;
// cancelling an in-flight request never invalidates the transport for
// other requests.
type Client struct {
	httpc   *http.Client
	baseURL string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the HTTP client used for fetching. The caller
// keeps ownership of the passed client's transport.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithBaseURL points the client at a different base address. Used by tests
// and mirrors.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the structured logger used for non-fatal observations
// such as unknown mass-type labels.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client ready for concurrent use.
func New(opts ...Option) *Client {
	c := &Client{
		httpc:   &http.Client{Timeout: defaultTimeout},
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections held by the transport. The client must
// not be used after Close.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}

// URLFor returns the deterministic readings URL for a (date, type) pair.
func (c *Client) URLFor(date time.Time, t mass.Type) string {
	return c.baseURL + date.Format(urlDateLayout) + t.URLSuffix() + ".cfm"
}

// GetMassTypes resolves the distinct mass types published for a date. The
// date's unlabeled readings page is fetched and scanned for links to
// sibling mass-type pages. The unlabeled default type is always part of
// the result, since its page just served. A date with no published page
// resolves to an empty result, not an error. Unrecognized labels are
// preserved as mass.TypeUnknown and logged, never dropped.
func (c *Client) GetMassTypes(ctx context.Context, date time.Time) ([]mass.Type, error) {
	url := c.URLFor(date, mass.TypeDefault)
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.NotFound() {
			return nil, nil
		}
		return nil, err
	}

	wantDate := date.Format(urlDateLayout)
	seen := map[mass.Type]bool{mass.TypeDefault: true}
	types := []mass.Type{mass.TypeDefault}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := readingsLinkPattern.FindStringSubmatch(href)
		if m == nil || m[1] != wantDate {
			return
		}

		t := mass.ParseType(m[2])
		if t == mass.TypeUnknown {
			c.logger.Warn("unknown mass type label", "label", m[2], "url", href)
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	})

	sortByPrecedence(types)
	return types, nil
}

// GetMass fetches and resolves the mass for a specific (date, type) pair.
// It returns (nil, nil) when no page is published for the pair or when the
// page lacks the mandatory readings. Callers probe speculative
// combinations, so absence is a valid result rather than a failure.
func (c *Client) GetMass(ctx context.Context, date time.Time, t mass.Type) (*mass.Mass, error) {
	return c.getMass(ctx, c.URLFor(date, t), date, t)
}

// GetMassFromURL resolves the mass published at a specific readings URL,
// recovering the date and type from the URL itself.
func (c *Client) GetMassFromURL(ctx context.Context, url string) (*mass.Mass, error) {
	m := readingsLinkPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, fmt.Errorf("unrecognized readings URL %q", url)
	}
	date, err := time.Parse(urlDateLayout, m[1])
	if err != nil {
		return nil, fmt.Errorf("invalid date in readings URL %q: %w", url, err)
	}

	t := mass.ParseType(m[2])
	if t == mass.TypeUnknown {
		c.logger.Warn("unknown mass type label", "label", m[2], "url", url)
	}
	return c.getMass(ctx, url, date, t)
}

func (c *Client) getMass(ctx context.Context, url string, date time.Time, t mass.Type) (*mass.Mass, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.NotFound() {
			return nil, nil
		}
		return nil, err
	}

	readings, err := extractReadings(doc)
	if err != nil {
		var ee *ExtractionError
		if errors.As(err, &ee) {
			ee.URL = url
		}
		return nil, err
	}

	m := mass.Assemble(date, t, extractTitle(doc), url, readings)
	if m == nil {
		c.logger.Debug("incomplete mass", "date", date.Format(mass.DateLayout), "type", t.String(), "url", url)
		return nil, nil
	}
	return m, nil
}

// GetMassFromDate resolves the mass types available on a date and returns
// the best match by the documented precedence (day over vigil, labeled
// variants over the unlabeled default; see mass.PreferredTypes). When the
// date's index resolves to nothing, the preferred types are probed
// directly, since some days publish only labeled pages. Returns (nil, nil)
// when no mass exists for the date.
func (c *Client) GetMassFromDate(ctx context.Context, date time.Time) (*mass.Mass, error) {
	types, err := c.GetMassTypes(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		types = mass.PreferredTypes
	}

	for _, preferred := range mass.PreferredTypes {
		if !containsType(types, preferred) {
			continue
		}
		m, err := c.GetMass(ctx, date, preferred)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}

	c.logger.Warn("no mass for date", "date", date.Format(mass.DateLayout))
	return nil, nil
}

// GetTodayMass returns the mass for the current date in the source site's
// timezone.
func (c *Client) GetTodayMass(ctx context.Context) (*mass.Mass, error) {
	return c.GetMassFromDate(ctx, Today())
}

// fetchDocument retrieves a URL and parses it as HTML. Non-2xx responses
// become FetchErrors carrying the status code.
func (c *Client) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", url, err)
	}
	return doc, nil
}

// sortByPrecedence orders types by the documented precedence; unknown
// types sort last.
func sortByPrecedence(types []mass.Type) {
	rank := func(t mass.Type) int {
		for i, p := range mass.PreferredTypes {
			if p == t {
				return i
			}
		}
		return len(mass.PreferredTypes)
	}
	sort.Slice(types, func(i, j int) bool { return rank(types[i]) < rank(types[j]) })
}

func containsType(types []mass.Type, t mass.Type) bool {
	for _, have := range types {
		if have == t {
			return true
		}
	}
	return false
}
