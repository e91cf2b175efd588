// Package report holds fetched report data together with its loading and
// error state. Every report is an instance of the generic Store.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	MsgNoData    = "No data received from the server."
	MsgMalformed = "Received malformed data from the server."
)

var (
	errNoData    = errors.New("empty response body")
	errMalformed = errors.New("malformed response body")
)

// Fetcher performs one read request against the reporting backend.
type Fetcher interface {
	Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Query carries the inputs of a fetch. Stores pick the fields their
// endpoint needs.
type Query struct {
	Start      time.Time
	End        time.Time
	GrowthRate *decimal.Decimal
	// Type selects a DSO slot; empty refreshes every slot.
	Type DSOType
}

// ParamBuilder turns a query into request parameters. An *InputError
// aborts the fetch before any request is made.
type ParamBuilder func(Query) (url.Values, error)

// InputError is a validation failure shown to the user as is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Definition describes one report: where it comes from and what its empty
// shape looks like.
type Definition[T any] struct {
	Name     string
	Endpoint string
	Params   ParamBuilder
	// Empty returns the default data: empty collections, zero amounts.
	Empty func() T
	// Normalize replaces absent collections in decoded data with empty ones.
	Normalize func(*T)
	// Values exposes named amounts to the getValue accessor.
	Values func(T) map[string]decimal.Decimal
	// FailureMessage is shown when the request itself fails.
	FailureMessage string
}

// State is a copy of a store's fields.
type State[T any] struct {
	Data      T          `json:"data"`
	IsLoading bool       `json:"isLoading"`
	Error     *string    `json:"error"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
}

// Store holds one report. Only its own Fetch mutates it.
type Store[T any] struct {
	def  Definition[T]
	src  Fetcher
	sink Sink

	staleGuard bool
	now        func() time.Time

	mu        sync.RWMutex
	data      T
	loading   bool
	errMsg    *string
	fetchedAt *time.Time
	seq       uint64
}

type Option func(*options)

type options struct {
	sink       Sink
	staleGuard bool
	now        func() time.Time
}

// WithSink records every successful payload to s.
func WithSink(s Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithStaleGuard discards a response when a newer fetch was issued after
// it. Without it the last response to arrive wins.
func WithStaleGuard() Option {
	return func(o *options) {
		o.staleGuard = true
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func NewStore[T any](def Definition[T], src Fetcher, opts ...Option) *Store[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[T]{
		def:        def,
		src:        src,
		sink:       o.sink,
		staleGuard: o.staleGuard,
		now:        o.now,
		data:       def.Empty(),
	}
}

func (s *Store[T]) Name() string {
	return s.def.Name
}

func (s *Store[T]) Endpoint() string {
	return s.def.Endpoint
}

// Fetch re-requests the report and overwrites the store. It never returns
// an error: failures end up in the store's Error field.
func (s *Store[T]) Fetch(ctx context.Context, q Query) {
	logger := zerolog.Ctx(ctx).With().Str("report", s.def.Name).Logger()

	params, err := s.def.Params(q)
	if err != nil {
		s.mu.Lock()
		s.errMsg = inputMessage(err)
		s.mu.Unlock()
		logger.Debug().Err(err).Msg("report fetch rejected")
		return
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	s.errMsg = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	raw, err := s.src.Get(ctx, s.def.Endpoint, params)
	if err != nil {
		logger.Error().Err(err).Str("endpoint", s.def.Endpoint).Msg("report fetch failed")
		s.commit(seq, func() {
			s.errMsg = ptr(s.def.FailureMessage)
		})
		return
	}

	data, err := s.decode(raw)
	if err != nil {
		msg := MsgNoData
		if errors.Is(err, errMalformed) {
			msg = MsgMalformed
		}
		logger.Warn().Err(err).Str("endpoint", s.def.Endpoint).Msg("report payload rejected")
		s.commit(seq, func() {
			s.data = s.def.Empty()
			s.errMsg = ptr(msg)
		})
		return
	}

	fetchedAt := s.now()
	applied := s.commit(seq, func() {
		s.data = data
		s.fetchedAt = &fetchedAt
	})
	if !applied {
		logger.Debug().Uint64("seq", seq).Msg("stale report response discarded")
		return
	}

	if s.sink != nil {
		snap := Snapshot{
			Report:    s.def.Name,
			Start:     q.Start,
			End:       q.End,
			Payload:   json.RawMessage(raw),
			FetchedAt: fetchedAt,
		}
		if err := s.sink.Record(ctx, snap); err != nil {
			logger.Warn().Err(err).Msg("failed to record report snapshot")
		}
	}
}

// commit applies fn under the lock unless a newer fetch was issued and the
// stale guard is on.
func (s *Store[T]) commit(seq uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staleGuard && seq != s.seq {
		return false
	}
	fn()
	return true
}

func (s *Store[T]) decode(raw []byte) (T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		var zero T
		return zero, errNoData
	}

	data := s.def.Empty()
	if err := json.Unmarshal(trimmed, &data); err != nil {
		var zero T
		return zero, errors.Join(errMalformed, err)
	}
	if s.def.Normalize != nil {
		s.def.Normalize(&data)
	}
	return data, nil
}

// State returns a copy of the store fields.
func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State[T]{
		Data:      s.data,
		IsLoading: s.loading,
	}
	if s.errMsg != nil {
		st.Error = ptr(*s.errMsg)
	}
	if s.fetchedAt != nil {
		at := *s.fetchedAt
		st.FetchedAt = &at
	}
	return st
}

func (s *Store[T]) Data() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store[T]) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current user-facing error message, or "".
func (s *Store[T]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.errMsg == nil {
		return ""
	}
	return *s.errMsg
}

// Refresh implements Report.
func (s *Store[T]) Refresh(ctx context.Context, q Query) {
	s.Fetch(ctx, q)
}

// Status implements Report.
func (s *Store[T]) Status() any {
	return s.State()
}

func inputMessage(err error) *string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return ptr(inputErr.Message)
	}
	return ptr(err.Error())
}

func ptr[T any](v T) *T {
	return &v
}
