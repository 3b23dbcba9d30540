package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
	"github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader lets clients make a save safe to resend
	IdempotencyKeyHeader = "X-Idempotency-Key"
	idempotencyKeyPrefix = "idempotency:"
)

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
}

// RedisClient is the subset of go-redis the middleware needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Redis RedisClient
	// TTL for completed records
	TTL time.Duration
	// ProcessingTTL bounds how long a crashed request blocks its key
	ProcessingTTL time.Duration
}

// Idempotency replays the stored response when a client resends a request
// with the same X-Idempotency-Key. Requests without the header pass through.
// Redis failures fail open.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL == 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.ProcessingTTL == 0 {
		cfg.ProcessingTTL = time.Minute
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || cfg.Redis == nil {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		userID, _ := GetUserID(c)
		hash := requestHash(c.Request.Method, c.Request.URL.Path, userID, body)
		redisKey := idempotencyKeyPrefix + userID + ":" + key
		ctx := c.Request.Context()

		record := idempotencyRecord{Status: statusProcessing, RequestHash: hash}
		data, _ := json.Marshal(record)
		acquired, err := cfg.Redis.SetNX(ctx, redisKey, data, cfg.ProcessingTTL).Result()
		if err != nil {
			c.Next()
			return
		}

		if !acquired {
			existing, err := loadRecord(ctx, cfg.Redis, redisKey)
			if err != nil {
				c.Next()
				return
			}
			switch {
			case existing.RequestHash != hash:
				response.UnprocessableEntity(c, "IDEMPOTENCY_KEY_REUSED", "Idempotency key already used with a different request", nil)
			case existing.Status == statusProcessing:
				response.Conflict(c, "REQUEST_IN_PROGRESS", "A request with this idempotency key is already being processed")
			default:
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
			}
			return
		}

		rw := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = rw
		c.Next()

		// Only successful outcomes are replayable; anything else frees the key.
		status := rw.Status()
		if status >= 400 {
			cfg.Redis.Del(context.WithoutCancel(ctx), redisKey)
			return
		}
		record.Status = statusCompleted
		record.ResponseCode = status
		record.ResponseBody = rw.body.String()
		data, _ = json.Marshal(record)
		cfg.Redis.Set(context.WithoutCancel(ctx), redisKey, data, cfg.TTL)
	}
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func requestHash(method, path, userID string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write([]byte(userID))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func loadRecord(ctx context.Context, client RedisClient, key string) (*idempotencyRecord, error) {
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
