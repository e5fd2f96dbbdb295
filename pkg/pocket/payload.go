package pocket

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Payload is the key/value body of a request.
type Payload map[string]any

// Accepted values for some retrieve parameters. The API validates them; the
// client passes whatever it is given.
const (
	StateUnread  = "unread"
	StateArchive = "archive"
	StateAll     = "all"

	ContentTypeArticle = "article"
	ContentTypeVideo   = "video"
	ContentTypeImage   = "image"

	DetailTypeSimple   = "simple"
	DetailTypeComplete = "complete"
)

// RetrieveOptions holds the optional parameters of the retrieve operation.
// A nil field is left out of the request.
type RetrieveOptions struct {
	State       *string
	Favorite    *int
	Tag         *string
	ContentType *string
	DetailType  *string
	Search      *string
	Domain      *string
	Since       *int
	Count       *int
	Offset      *int
}

// AddOptions holds the parameters of the add operation.
type AddOptions struct {
	URL     *string
	Title   *string
	Tags    *string
	TweetID *string
}

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// field binds a parameter name and its wire key to an accessor on an options struct.
type field[O any] struct {
	name  string
	key   string
	value func(O) (any, bool)
}

func newField[O any](name string, value func(O) (any, bool)) field[O] {
	return field[O]{name: name, key: CamelFromSnake(name), value: value}
}

func optString(p *string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func optInt(p *int) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

var retrieveFields = []field[RetrieveOptions]{
	newField("state", func(o RetrieveOptions) (any, bool) { return optString(o.State) }),
	newField("favorite", func(o RetrieveOptions) (any, bool) { return optInt(o.Favorite) }),
	newField("tag", func(o RetrieveOptions) (any, bool) { return optString(o.Tag) }),
	newField("content_type", func(o RetrieveOptions) (any, bool) { return optString(o.ContentType) }),
	newField("detail_type", func(o RetrieveOptions) (any, bool) { return optString(o.DetailType) }),
	newField("search", func(o RetrieveOptions) (any, bool) { return optString(o.Search) }),
	newField("domain", func(o RetrieveOptions) (any, bool) { return optString(o.Domain) }),
	newField("since", func(o RetrieveOptions) (any, bool) { return optInt(o.Since) }),
	newField("count", func(o RetrieveOptions) (any, bool) { return optInt(o.Count) }),
	newField("offset", func(o RetrieveOptions) (any, bool) { return optInt(o.Offset) }),
}

var addFields = []field[AddOptions]{
	newField("url", func(o AddOptions) (any, bool) { return optString(o.URL) }),
	newField("title", func(o AddOptions) (any, bool) { return optString(o.Title) }),
	newField("tags", func(o AddOptions) (any, bool) { return optString(o.Tags) }),
	newField("tweet_id", func(o AddOptions) (any, bool) { return optString(o.TweetID) }),
}

func buildPayload[O any](fields []field[O], opts O) Payload {
	payload := make(Payload, len(fields))
	for _, f := range fields {
		if v, ok := f.value(opts); ok {
			payload[f.key] = v
		}
	}
	return payload
}

// BuildRetrievePayload returns the retrieve parameters that are set, keyed by their camelCase names.
func BuildRetrievePayload(opts RetrieveOptions) Payload {
	return buildPayload(retrieveFields, opts)
}

// BuildAddPayload returns the add parameters that are set, keyed by their camelCase names.
func BuildAddPayload(opts AddOptions) Payload {
	return buildPayload(addFields, opts)
}

// CamelFromSnake converts foo_bar_baz to fooBarBaz. The first segment is kept
// as is; each following segment gets an upper-case first letter and a
// lower-case rest.
func CamelFromSnake(snake string) string {
	parts := strings.Split(snake, "_")
	var b strings.Builder
	b.Grow(len(snake))
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(capitalize(p))
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
