package cmsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"space-traveling/cmd/internal/httpclient"
	"space-traveling/logger"
	"space-traveling/models"
)

// Client talks to the Prismic REST API v2.
//
// Every query first resolves the master ref through GET /api/v2, then calls
// /api/v2/documents/search. Continuation cursors are the next_page URLs
// Prismic returns and are only followed on the configured host.
type Client struct {
	base        *httpclient.BaseClient
	endpoint    *url.URL
	accessToken string
}

// New builds a client for endpoint (e.g. https://spacetraveling.cdn.prismic.io).
// A nil httpClient means the shared logging client.
func New(endpoint, accessToken string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("cmsclient: parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("cmsclient: endpoint must be absolute: %q", endpoint)
	}
	return &Client{
		base:        httpclient.NewBaseClientWithClient(httpClient, u.String()),
		endpoint:    u,
		accessToken: accessToken,
	}, nil
}

// -------------------- wire types --------------------

type apiRef struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiInfo struct {
	Refs []apiRef `json:"refs"`
}

type searchResponse struct {
	Page             int              `json:"page"`
	ResultsPerPage   int              `json:"results_per_page"`
	TotalResultsSize int              `json:"total_results_size"`
	TotalPages       int              `json:"total_pages"`
	NextPage         *string          `json:"next_page"`
	Results          []searchDocument `json:"results"`
}

type searchDocument struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid"`
	Type                 string          `json:"type"`
	FirstPublicationDate string          `json:"first_publication_date"`
	LastPublicationDate  string          `json:"last_publication_date"`
	Data                 models.PostData `json:"data"`
}

// prismicTimeLayout is how Prismic writes publication dates ("2021-03-25T19:25:28+0000").
const prismicTimeLayout = "2006-01-02T15:04:05-0700"

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{prismicTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unparseable date %q", models.ErrMalformedDocument, s)
}

func (d searchDocument) toModel() (models.Document, error) {
	first, err := parseTime(d.FirstPublicationDate)
	if err != nil {
		return models.Document{}, err
	}
	last, err := parseTime(d.LastPublicationDate)
	if err != nil {
		return models.Document{}, err
	}
	doc := models.Document{
		ID:                   d.ID,
		UID:                  d.UID,
		Type:                 d.Type,
		FirstPublicationDate: first,
		LastPublicationDate:  last,
		Data:                 d.Data,
	}
	if err := doc.Validate(); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// -------------------- ContentStore --------------------

// GetByType lists every document of docType.
func (c *Client) GetByType(ctx context.Context, docType string, opts models.QueryOptions) (models.Page, error) {
	return c.Get(ctx, models.Query{
		Predicates:   []models.Predicate{models.At(models.PathType, docType)},
		QueryOptions: opts,
	})
}

// GetByUID returns the document of docType with the given uid.
func (c *Client) GetByUID(ctx context.Context, docType, uid string) (models.Document, error) {
	resp, err := c.search(ctx, models.Query{
		Predicates: []models.Predicate{
			models.At(models.PathType, docType),
			models.At(models.UIDPath(docType), uid),
		},
		QueryOptions: models.QueryOptions{PageSize: 1},
	})
	if err != nil {
		return models.Document{}, err
	}
	if len(resp.Results) == 0 {
		return models.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, docType, uid)
	}
	return resp.Results[0].toModel()
}

// Get runs a predicate query and returns its first page.
func (c *Client) Get(ctx context.Context, q models.Query) (models.Page, error) {
	resp, err := c.search(ctx, q)
	if err != nil {
		return models.Page{}, err
	}
	return toPage(resp), nil
}

// NextPage follows a next_page URL returned by an earlier query.
func (c *Client) NextPage(ctx context.Context, cursor string) (models.Page, error) {
	u, err := url.Parse(cursor)
	if err != nil {
		return models.Page{}, fmt.Errorf("%w: %v", models.ErrInvalidCursor, err)
	}
	if u.Scheme != c.endpoint.Scheme || u.Host != c.endpoint.Host || !strings.HasSuffix(u.Path, "/documents/search") {
		return models.Page{}, fmt.Errorf("%w: foreign url %s://%s%s", models.ErrInvalidCursor, u.Scheme, u.Host, u.Path)
	}
	q := u.Query()
	if c.accessToken != "" && q.Get("access_token") == "" {
		q.Set("access_token", c.accessToken)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Page{}, err
	}
	var resp searchResponse
	if err := c.doJSON(req, "NextPage", &resp); err != nil {
		return models.Page{}, err
	}
	return toPage(resp), nil
}

// Health checks that the API answers with a master ref.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.masterRef(ctx)
	return err
}

func toPage(resp searchResponse) models.Page {
	page := models.Page{Results: make([]models.Document, 0, len(resp.Results)), NextPage: resp.NextPage}
	if page.NextPage != nil && *page.NextPage == "" {
		page.NextPage = nil
	}
	for _, raw := range resp.Results {
		doc, err := raw.toModel()
		if err != nil {
			logger.WarnWithFields("skipping malformed document", logger.Fields{"uid": raw.UID, "error": err.Error()})
			continue
		}
		page.Results = append(page.Results, doc)
	}
	return page
}

func (c *Client) masterRef(ctx context.Context) (string, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/v2", c.tokenQuery())
	if err != nil {
		return "", err
	}
	var info apiInfo
	if err := c.doJSON(req, "GetAPI", &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", fmt.Errorf("prismic GetAPI: no master ref")
}

func (c *Client) search(ctx context.Context, q models.Query) (searchResponse, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return searchResponse{}, err
	}
	params, err := searchParams(ref, q)
	if err != nil {
		return searchResponse{}, err
	}
	if c.accessToken != "" {
		params.Set("access_token", c.accessToken)
	}

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/v2/documents/search", params)
	if err != nil {
		return searchResponse{}, err
	}
	var resp searchResponse
	if err := c.doJSON(req, "Search", &resp); err != nil {
		return searchResponse{}, err
	}
	return resp, nil
}

func (c *Client) tokenQuery() url.Values {
	if c.accessToken == "" {
		return nil
	}
	return url.Values{"access_token": {c.accessToken}}
}

func (c *Client) doJSON(req *http.Request, op string, out any) error {
	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("prismic %s: status=%d body=%s", op, resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("prismic %s: decode: %w", op, err)
	}
	return nil
}

// -------------------- query encoding --------------------

// searchParams encodes a query the way the Prismic search endpoint expects:
// q=[[at(document.type,"posts")][date.before(document.first_publication_date,1616700328000)]]
func searchParams(ref string, q models.Query) (url.Values, error) {
	var b strings.Builder
	b.WriteString("[")
	for _, p := range q.Predicates {
		s, err := encodePredicate(p)
		if err != nil {
			return nil, err
		}
		b.WriteString("[" + s + "]")
	}
	b.WriteString("]")

	params := url.Values{}
	params.Set("ref", ref)
	params.Set("q", b.String())
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if len(q.Orderings) > 0 {
		parts := make([]string, 0, len(q.Orderings))
		for _, o := range q.Orderings {
			parts = append(parts, o.String())
		}
		params.Set("orderings", "["+strings.Join(parts, ",")+"]")
	}
	// metadata (uid, publication dates) is always returned; fetch only takes type.field
	var fetch []string
	for _, f := range q.Fetch {
		if strings.Contains(f, ".") {
			fetch = append(fetch, f)
		}
	}
	if len(fetch) > 0 {
		params.Set("fetch", strings.Join(fetch, ","))
	}
	return params, nil
}

func encodePredicate(p models.Predicate) (string, error) {
	switch p.Op {
	case models.OpAt:
		return fmt.Sprintf("at(%s,%s)", p.Path, strconv.Quote(p.Value)), nil
	case models.OpDateBefore, models.OpDateAfter:
		t, err := p.Time()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s,%d)", p.Op, p.Path, t.UnixMilli()), nil
	default:
		return "", fmt.Errorf("prismic: unsupported predicate %q", p.Op)
	}
}
