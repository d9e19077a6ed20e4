package utils

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// OTP purposes
const (
	OTPPurposeRegister = "register"
	OTPPurposeLogin    = "login"
	OTPPurposeReset    = "reset"
)

var (
	ErrOTPNotFound        = errors.New("otp not found or expired")
	ErrOTPMismatch        = errors.New("otp mismatch")
	ErrOTPTooManyAttempts = errors.New("too many otp attempts")
)

// OTPRecord is what the store keeps per (purpose, email)
type OTPRecord struct {
	Code     string          `json:"code"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Attempts int             `json:"attempts"`
	IssuedAt time.Time       `json:"issued_at"`
}

// OTPStore keeps one-time codes with a TTL. Verify consumes the code on success.
type OTPStore interface {
	Save(ctx context.Context, purpose, key string, record OTPRecord, ttl time.Duration) error
	Verify(ctx context.Context, purpose, key, code string) (*OTPRecord, error)
	Peek(ctx context.Context, purpose, key string) (*OTPRecord, error)
}

// OTPs is the store used by the auth handlers
var OTPs OTPStore = NewMemoryOTPStore()

func otpKey(purpose, key string) string {
	return "otp:" + purpose + ":" + key
}

func otpAttemptsKey(purpose, key string) string {
	return "otp-attempts:" + purpose + ":" + key
}

// incrOTPAttempts bumps the miss counter only while the code itself still exists
var incrOTPAttempts = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("INCR", KEYS[2])
`)

// RedisOTPStore keeps codes in Redis so they survive restarts and work across replicas.
// Wrong guesses are counted on a sibling key with INCR.
type RedisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(addr, password string, db int) *RedisOTPStore {
	return NewRedisOTPStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

func NewRedisOTPStoreWithClient(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (r *RedisOTPStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisOTPStore) Close() error {
	return r.client.Close()
}

func (r *RedisOTPStore) Save(ctx context.Context, purpose, key string, record OTPRecord, ttl time.Duration) error {
	attempts := record.Attempts
	record.Attempts = 0
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKey(purpose, key), data, ttl)
		pipe.Set(ctx, otpAttemptsKey(purpose, key), attempts, ttl)
		return nil
	})
	return err
}

func (r *RedisOTPStore) Peek(ctx context.Context, purpose, key string) (*OTPRecord, error) {
	data, err := r.client.Get(ctx, otpKey(purpose, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}
	var record OTPRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	attempts, err := r.client.Get(ctx, otpAttemptsKey(purpose, key)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	record.Attempts = attempts
	return &record, nil
}

func (r *RedisOTPStore) Verify(ctx context.Context, purpose, key, code string) (*OTPRecord, error) {
	record, err := r.Peek(ctx, purpose, key)
	if err != nil {
		return nil, err
	}
	if record.Attempts >= MaxOTPAttempts {
		return nil, r.burn(ctx, purpose, key, ErrOTPTooManyAttempts)
	}

	if record.Code == code {
		// only the caller that actually removes the key gets to use the code
		removed, err := r.client.Del(ctx, otpKey(purpose, key)).Result()
		if err != nil {
			return nil, err
		}
		if removed == 0 {
			return nil, ErrOTPNotFound
		}
		if err := r.client.Del(ctx, otpAttemptsKey(purpose, key)).Err(); err != nil {
			LogError("Failed to clear otp attempts for %s: %v", key, err)
		}
		return record, nil
	}

	attempts, err := incrOTPAttempts.Run(ctx, r.client, []string{otpKey(purpose, key), otpAttemptsKey(purpose, key)}).Int()
	if err != nil {
		return nil, err
	}
	if attempts < 0 {
		return nil, ErrOTPNotFound
	}
	if attempts >= MaxOTPAttempts {
		return nil, r.burn(ctx, purpose, key, ErrOTPTooManyAttempts)
	}
	return nil, ErrOTPMismatch
}

// burn drops the code and its counter, returning outcome unless the delete failed
func (r *RedisOTPStore) burn(ctx context.Context, purpose, key string, outcome error) error {
	if err := r.client.Del(ctx, otpKey(purpose, key), otpAttemptsKey(purpose, key)).Err(); err != nil {
		return err
	}
	return outcome
}

type memoryOTP struct {
	record    OTPRecord
	expiresAt time.Time
}

// MemoryOTPStore is a process-local store for development and tests
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]*memoryOTP
	now     func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{
		entries: make(map[string]*memoryOTP),
		now:     time.Now,
	}
}

func (m *MemoryOTPStore) Save(_ context.Context, purpose, key string, record OTPRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[otpKey(purpose, key)] = &memoryOTP{record: record, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryOTPStore) Peek(_ context.Context, purpose, key string) (*OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, err := m.lookup(otpKey(purpose, key))
	if err != nil {
		return nil, err
	}
	record := entry.record
	return &record, nil
}

func (m *MemoryOTPStore) Verify(_ context.Context, purpose, key, code string) (*OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := otpKey(purpose, key)
	entry, err := m.lookup(k)
	if err != nil {
		return nil, err
	}
	outcome := checkOTP(&entry.record, code)
	if outcome == nil || outcome == ErrOTPTooManyAttempts {
		delete(m.entries, k)
	}
	if outcome != nil {
		return nil, outcome
	}
	record := entry.record
	return &record, nil
}

func (m *MemoryOTPStore) lookup(k string) (*memoryOTP, error) {
	entry, ok := m.entries[k]
	if !ok {
		return nil, ErrOTPNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, k)
		return nil, ErrOTPNotFound
	}
	return entry, nil
}

// checkOTP compares the code and bumps the attempt counter on a miss
func checkOTP(record *OTPRecord, code string) error {
	if record.Attempts >= MaxOTPAttempts {
		return ErrOTPTooManyAttempts
	}
	if record.Code == code {
		return nil
	}
	record.Attempts++
	if record.Attempts >= MaxOTPAttempts {
		return ErrOTPTooManyAttempts
	}
	return ErrOTPMismatch
}
