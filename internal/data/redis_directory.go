package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
)

const subjectKeyPrefix = "alerts:subject:"

// RedisDirectory is a ContactDirectory backed by Redis. Subjects are stored
// as JSON documents under alerts:subject:<id>, the same shape the JSON
// directory accepts.
type RedisDirectory struct {
	client redis.UniversalClient
}

// NewRedisDirectory creates a new RedisDirectory with the given Redis client.
func NewRedisDirectory(client redis.UniversalClient) *RedisDirectory {
	return &RedisDirectory{client: client}
}

func subjectKey(subjectID string) string {
	return subjectKeyPrefix + subjectID
}

// Lookup implements core.ContactDirectory.
func (d *RedisDirectory) Lookup(ctx context.Context, subjectID string) (*model.Subject, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, apperrors.Validation("subject id is required")
	}

	raw, err := d.client.Get(ctx, subjectKey(subjectID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFoundf("subject %q not found in directory", subjectID)
		}
		return nil, fmt.Errorf("directory get subject: %w", err)
	}

	var s model.Subject
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal,
			"stored subject %q is not valid JSON", subjectID)
	}
	s.Normalize()
	if s.ID == "" {
		s.ID = subjectID
	}
	return &s, nil
}

// SaveSubject stores a subject document. Used by seeding tools and tests;
// the dispatch path itself only reads.
func (d *RedisDirectory) SaveSubject(ctx context.Context, s *model.Subject) error {
	if s == nil {
		return apperrors.Validation("subject is required")
	}
	s.Normalize()
	if s.ID == "" {
		return apperrors.Validation("subject id is required")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode subject: %w", err)
	}

	if err := d.client.Set(ctx, subjectKey(s.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("directory set subject: %w", err)
	}
	return nil
}
