package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"vidquiz/internal/domain"

	"github.com/redis/go-redis/v9"
)

const transcriptKeyPrefix = "transcript:"

// TranscriptCache caches transcripts per video URL so repeated runs on the
// same video skip download and decoding. Generated quizzes are never cached;
// each successful run still produces a fresh quiz.
type TranscriptCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranscriptCache(client *redis.Client, ttl time.Duration) *TranscriptCache {
	return &TranscriptCache{client: client, ttl: ttl}
}

var _ domain.TranscriptCache = (*TranscriptCache)(nil)

// Get returns the cached transcript for the URL, or "" on a miss.
func (c *TranscriptCache) Get(ctx context.Context, videoURL string) (string, error) {
	val, err := c.client.Get(ctx, transcriptKey(videoURL)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (c *TranscriptCache) Set(ctx context.Context, videoURL, transcript string) error {
	return c.client.Set(ctx, transcriptKey(videoURL), transcript, c.ttl).Err()
}

// transcriptKey hashes the URL so arbitrary query strings stay within redis
// key conventions.
func transcriptKey(videoURL string) string {
	sum := sha256.Sum256([]byte(videoURL))
	return transcriptKeyPrefix + hex.EncodeToString(sum[:])
}
