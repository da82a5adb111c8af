package resume

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/cvmatch/internal/db"
	"github.com/kailas-cloud/cvmatch/internal/domain"
	domresume "github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

var (
	keyPrefix = domain.KeyPrefix + "resume:"
	seqKey    = domain.KeyPrefix + "seq:resume"
)

// store is the consumer interface for résumé records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo stores résumé records as hashes keyed cvmatch:resume:<applicant_id>.
// It implements usecase/search.RecordProvider.
type Repo struct {
	store store
}

// New creates a résumé repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put creates or replaces a record. Returns true if created.
func (r *Repo) Put(ctx context.Context, rec *domresume.Record) (bool, error) {
	key := recordKey(rec.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		// HSET only adds fields; drop the old hash so cleared fields disappear.
		if err := r.store.Del(ctx, key); err != nil {
			return false, fmt.Errorf("del %s: %w", key, err)
		}
	}
	if err := r.store.HSet(ctx, key, buildHashFields(rec)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// PutMany writes records in a single pipelined round-trip. Existing hashes
// are overwritten field by field.
func (r *Repo) PutMany(ctx context.Context, recs []domresume.Record) error {
	items := make([]db.HashSetItem, len(recs))
	for i := range recs {
		items[i] = db.HashSetItem{Key: recordKey(recs[i].ID()), Fields: buildHashFields(&recs[i])}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// Get returns a record by applicant id.
func (r *Repo) Get(ctx context.Context, id int64) (domresume.Record, error) {
	key := recordKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domresume.Record{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domresume.Record{}, domain.ErrRecordNotFound
	}
	return parseHashFields(id, m), nil
}

// List returns every stored record ordered by applicant id.
func (r *Repo) List(ctx context.Context) ([]domresume.Record, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	ids := make([]int64, 0, len(keys))
	for _, k := range keys {
		if id, ok := parseKey(k); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = recordKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	records := make([]domresume.Record, 0, len(hashes))
	for i, m := range hashes {
		// Deleted between SCAN and HGETALL.
		if len(m) == 0 {
			continue
		}
		records = append(records, parseHashFields(ids[i], m))
	}
	return records, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := recordKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// NextID allocates a fresh applicant id from a store-side counter.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.IncrBy(ctx, seqKey, 1)
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	return id, nil
}

func recordKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func parseKey(key string) (int64, bool) {
	raw, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
