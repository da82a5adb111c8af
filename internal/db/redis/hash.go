package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/cvmatch/internal/db"
)

// pipelineChunk caps commands per DoMulti so a large corpus listing does not
// build one unbounded pipeline.
var pipelineChunk = 256

// scanPageSize is the COUNT hint for SCAN.
const scanPageSize = 500

func (s *Store) hset(key string, fields map[string]string) rueidis.Completed {
	cmd := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	return cmd.Build()
}

// HSet sets hash fields. HSET with no fields is a server error, so an empty
// map is a no-op.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.do(ctx, s.hset(key, fields)).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HSetMulti stores multiple hashes with pipelined HSETs.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	cmds := make([]rueidis.Completed, 0, len(items))
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if len(item.Fields) == 0 {
			continue
		}
		cmds = append(cmds, s.hset(item.Key, item.Fields))
		keys = append(keys, item.Key)
	}

	return s.pipeline(ctx, cmds, func(i int, res rueidis.RedisResult) error {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		return nil
	})
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// HGetAllMulti fetches many hashes with pipelined HGETALLs. The result is
// index-aligned with keys.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	out := make([]map[string]string, len(keys))
	err := s.pipeline(ctx, cmds, func(i int, res rueidis.RedisResult) error {
		m, err := res.AsStrMap()
		if err != nil {
			return &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// pipeline sends cmds in chunks and hands each reply to fn with its index in cmds.
func (s *Store) pipeline(
	ctx context.Context, cmds []rueidis.Completed, fn func(i int, res rueidis.RedisResult) error,
) error {
	for start := 0; start < len(cmds); start += pipelineChunk {
		end := min(start+pipelineChunk, len(cmds))
		for j, res := range s.client.DoMulti(ctx, cmds[start:end]...) {
			if err := fn(start+j, res); err != nil {
				return err
			}
		}
	}
	return nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.do(ctx, s.b().Del().Key(key).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return count > 0, nil
}

// Scan returns every key matching pattern, sorted and de-duplicated.
// SCAN may repeat keys across pages while the keyspace is rehashing.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	seen := make(map[string]struct{})
	var cursor uint64

	for {
		if err := ctx.Err(); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanPageSize).Build()
		page, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		for _, k := range page.Elements {
			seen[k] = struct{}{}
		}
		if cursor = page.Cursor; cursor == 0 {
			break
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
