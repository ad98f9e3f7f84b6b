package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"space-traveling/db"
	"space-traveling/logger"
	"space-traveling/models"
)

const (
	// DefaultPageSize is used when a query does not set one.
	DefaultPageSize = 20
	// MaxPageSize matches the largest page Prismic serves.
	MaxPageSize = 100

	cursorTTL = 24 * time.Hour
	// maxSkip bounds (page-1)*size so a cursor can never overflow the skip.
	maxSkip = math.MaxInt32
)

// DocumentRepository is the MongoDB document store.
// Results are validated before they leave the repository.
type DocumentRepository struct {
	col          *mongo.Collection
	cursorSecret []byte
	now          func() time.Time
}

type Option func(*DocumentRepository)

// WithCursorSecret sets the HMAC key page cursors are signed with.
func WithCursorSecret(secret []byte) Option {
	return func(r *DocumentRepository) {
		if len(secret) > 0 {
			r.cursorSecret = secret
		}
	}
}

func NewDocumentRepository(d *mongo.Database, opts ...Option) *DocumentRepository {
	return newDocumentRepository(d.Collection(db.DocumentsCollection), opts...)
}

func newDocumentRepository(col *mongo.Collection, opts ...Option) *DocumentRepository {
	r := &DocumentRepository{col: col, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.cursorSecret == nil {
		r.cursorSecret = make([]byte, 32)
		if _, err := rand.Read(r.cursorSecret); err != nil {
			panic(fmt.Sprintf("cursor secret: %v", err))
		}
	}
	return r
}

type documentRecord struct {
	ObjectID        primitive.ObjectID `bson:"_id,omitempty"`
	models.Document `bson:",inline"`
}

func (r documentRecord) toModel() models.Document {
	d := r.Document
	if !r.ObjectID.IsZero() {
		d.ID = r.ObjectID.Hex()
	}
	return d
}

// cursorClaims is what an opaque continuation token carries. Tokens are HS256
// JWTs, so a client can neither forge a query nor alter the page size.
type cursorClaims struct {
	Query models.Query `json:"q"`
	Page  int          `json:"page"`
	jwt.RegisteredClaims
}

func (r *DocumentRepository) encodeCursor(q models.Query, page int) (string, error) {
	now := r.now()
	claims := cursorClaims{
		Query: q,
		Page:  page,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cursorTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.cursorSecret)
}

func (r *DocumentRepository) decodeCursor(s string) (cursorClaims, error) {
	var c cursorClaims
	_, err := jwt.ParseWithClaims(s, &c, func(*jwt.Token) (any, error) {
		return r.cursorSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(r.now))
	if err != nil {
		return cursorClaims{}, fmt.Errorf("%w: %v", models.ErrInvalidCursor, err)
	}
	if c.Page < 2 || len(c.Query.Predicates) == 0 {
		return cursorClaims{}, fmt.Errorf("%w: page=%d", models.ErrInvalidCursor, c.Page)
	}
	size, err := pageSize(c.Query.PageSize)
	if err != nil {
		return cursorClaims{}, fmt.Errorf("%w: %v", models.ErrInvalidCursor, err)
	}
	if _, err := skipFor(c.Page, size); err != nil {
		return cursorClaims{}, fmt.Errorf("%w: %v", models.ErrInvalidCursor, err)
	}
	return c, nil
}

func pageSize(requested int) (int, error) {
	switch {
	case requested <= 0:
		return DefaultPageSize, nil
	case requested > MaxPageSize:
		return 0, fmt.Errorf("page size %d above %d", requested, MaxPageSize)
	}
	return requested, nil
}

func skipFor(page, size int) (int64, error) {
	if page < 1 || int64(page-1) > maxSkip/int64(size) {
		return 0, fmt.Errorf("page %d out of range", page)
	}
	return int64(page-1) * int64(size), nil
}

// GetByType lists every document of docType.
func (r *DocumentRepository) GetByType(ctx context.Context, docType string, opts models.QueryOptions) (models.Page, error) {
	return r.Get(ctx, models.Query{
		Predicates:   []models.Predicate{models.At(models.PathType, docType)},
		QueryOptions: opts,
	})
}

// GetByUID returns the document of docType with the given uid.
func (r *DocumentRepository) GetByUID(ctx context.Context, docType, uid string) (models.Document, error) {
	var rec documentRecord
	err := r.col.FindOne(ctx, bson.D{{Key: "type", Value: docType}, {Key: "uid", Value: uid}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Document{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, docType, uid)
	}
	if err != nil {
		return models.Document{}, err
	}
	doc := rec.toModel()
	if err := doc.Validate(); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Get runs a predicate query and returns its first page.
func (r *DocumentRepository) Get(ctx context.Context, q models.Query) (models.Page, error) {
	return r.find(ctx, q, 1)
}

// NextPage follows a cursor issued by Get.
func (r *DocumentRepository) NextPage(ctx context.Context, cursor string) (models.Page, error) {
	c, err := r.decodeCursor(cursor)
	if err != nil {
		return models.Page{}, err
	}
	return r.find(ctx, c.Query, c.Page)
}

func (r *DocumentRepository) Health(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *DocumentRepository) find(ctx context.Context, q models.Query, page int) (models.Page, error) {
	filter, err := buildFilter(q.Predicates)
	if err != nil {
		return models.Page{}, err
	}
	size, err := pageSize(q.PageSize)
	if err != nil {
		return models.Page{}, err
	}
	skip, err := skipFor(page, size)
	if err != nil {
		return models.Page{}, err
	}

	opts := options.Find().
		SetSort(buildSort(q.Orderings)).
		SetSkip(skip).
		// one extra row tells us whether another page exists
		SetLimit(int64(size + 1))
	if proj := buildProjection(q.QueryOptions); proj != nil {
		opts.SetProjection(proj)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return models.Page{}, err
	}
	defer cur.Close(ctx)

	out := models.Page{Results: make([]models.Document, 0, size)}
	seen := 0
	for cur.Next(ctx) {
		seen++
		if seen > size {
			break
		}
		var rec documentRecord
		if err := cur.Decode(&rec); err != nil {
			logger.WarnWithFields("skipping undecodable document", logger.Fields{"error": err.Error()})
			continue
		}
		doc := rec.toModel()
		if err := doc.Validate(); err != nil {
			logger.WarnWithFields("skipping malformed document", logger.Fields{"uid": doc.UID, "error": err.Error()})
			continue
		}
		out.Results = append(out.Results, doc)
	}
	if err := cur.Err(); err != nil {
		return models.Page{}, err
	}

	if seen > size {
		next, err := r.encodeCursor(q, page+1)
		if err != nil {
			return models.Page{}, err
		}
		out.NextPage = &next
	}
	return out, nil
}

// UpsertByUID writes a document keyed by (type, uid).
func (r *DocumentRepository) UpsertByUID(ctx context.Context, d *models.Document) (*mongo.UpdateResult, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	filter := bson.D{{Key: "type", Value: d.Type}, {Key: "uid", Value: d.UID}}
	update := bson.M{
		"$setOnInsert": bson.M{
			"first_publication_date": d.FirstPublicationDate,
		},
		"$set": bson.M{
			"type":                  d.Type,
			"uid":                   d.UID,
			"last_publication_date": d.LastPublicationDate,
			"data":                  d.Data,
		},
	}
	return r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
}

// ExistsByUID reports whether a document of docType with uid is stored.
func (r *DocumentRepository) ExistsByUID(ctx context.Context, docType, uid string) (bool, error) {
	n, err := r.col.CountDocuments(ctx,
		bson.D{{Key: "type", Value: docType}, {Key: "uid", Value: uid}},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// fieldFor maps a query path to its stored field.
func fieldFor(path string) (string, error) {
	switch path {
	case models.PathType:
		return "type", nil
	case models.PathFirstPublicationDate:
		return "first_publication_date", nil
	case "document.last_publication_date":
		return "last_publication_date", nil
	case "document.id":
		return "_id", nil
	}
	if rest, ok := strings.CutPrefix(path, "my."); ok {
		_, field, ok := strings.Cut(rest, ".")
		if !ok || field == "" {
			return "", fmt.Errorf("unsupported path %q", path)
		}
		if field == "uid" {
			return "uid", nil
		}
		return "data." + field, nil
	}
	return "", fmt.Errorf("unsupported path %q", path)
}

func buildFilter(preds []models.Predicate) (bson.D, error) {
	filter := bson.D{}
	for _, p := range preds {
		field, err := fieldFor(p.Path)
		if err != nil {
			return nil, err
		}
		switch p.Op {
		case models.OpAt:
			filter = append(filter, bson.E{Key: field, Value: p.Value})
		case models.OpDateBefore, models.OpDateAfter:
			t, err := p.Time()
			if err != nil {
				return nil, err
			}
			op := "$lt"
			if p.Op == models.OpDateAfter {
				op = "$gt"
			}
			filter = append(filter, bson.E{Key: field, Value: bson.D{{Key: op, Value: t}}})
		default:
			return nil, fmt.Errorf("unsupported predicate %q", p.Op)
		}
	}
	return filter, nil
}

// buildSort defaults to first publication ascending. uid breaks ties so
// skip-based pages stay stable.
func buildSort(orderings []models.Ordering) bson.D {
	if len(orderings) == 0 {
		return bson.D{{Key: "first_publication_date", Value: 1}, {Key: "uid", Value: 1}}
	}
	sort := bson.D{}
	hasUID := false
	for _, o := range orderings {
		field, err := fieldFor(o.Path)
		if err != nil {
			continue
		}
		dir := 1
		if o.Desc {
			dir = -1
		}
		hasUID = hasUID || field == "uid"
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if !hasUID {
		sort = append(sort, bson.E{Key: "uid", Value: 1})
	}
	return sort
}

// buildProjection keeps metadata plus the fetched data fields.
// title is always kept since validation requires it.
func buildProjection(opts models.QueryOptions) bson.D {
	fields := opts.DataFields("")
	if len(fields) == 0 {
		return nil
	}
	proj := bson.D{
		{Key: "uid", Value: 1},
		{Key: "type", Value: 1},
		{Key: "first_publication_date", Value: 1},
		{Key: "last_publication_date", Value: 1},
		{Key: "data.title", Value: 1},
	}
	seen := map[string]bool{"title": true, "uid": true}
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		proj = append(proj, bson.E{Key: "data." + f, Value: 1})
	}
	return proj
}
