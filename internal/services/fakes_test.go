package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/models"
)

var errNotStubbed = errors.New("not stubbed")

// fakeDB lets each test intercept exactly the calls it cares about. Any
// call without a stub fails loudly.
type fakeDB struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	BeginFunc    func(ctx context.Context) (Tx, error)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc == nil {
		return nil, fmt.Errorf("Query: %w", errNotStubbed)
	}
	return f.QueryFunc(ctx, sql, args...)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return errRow{fmt.Errorf("QueryRow: %w", errNotStubbed)}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc == nil {
		return nil, fmt.Errorf("Exec: %w", errNotStubbed)
	}
	return f.ExecFunc(ctx, sql, args...)
}

func (f *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if f.BeginFunc == nil {
		return nil, fmt.Errorf("Begin: %w", errNotStubbed)
	}
	return f.BeginFunc(ctx)
}

type fakeTx struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	committed  bool
	rolledBack bool
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc == nil {
		return nil, fmt.Errorf("tx Query: %w", errNotStubbed)
	}
	return f.QueryFunc(ctx, sql, args...)
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return errRow{fmt.Errorf("tx QueryRow: %w", errNotStubbed)}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc == nil {
		return nil, fmt.Errorf("tx Exec: %w", errNotStubbed)
	}
	return f.ExecFunc(ctx, sql, args...)
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	if f.CommitFunc != nil {
		return f.CommitFunc(ctx)
	}
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	if f.RollbackFunc != nil {
		return f.RollbackFunc(ctx)
	}
	return nil
}

// rowFromValues builds a Row whose Scan copies the given values in order.
func rowFromValues(values ...any) Row {
	return valueRow{values: values}
}

type valueRow struct {
	values []any
}

func (r valueRow) Scan(dest ...any) error {
	return scanInto(dest, r.values)
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	return r.err
}

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(dest, r.rows[r.idx-1])
}

func (r *fakeRows) Close()    {}
func (r *fakeRows) Err() error { return r.err }

func scanInto(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		d := reflect.ValueOf(dest[i])
		if d.Kind() != reflect.Pointer || d.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		elem := d.Elem()
		if v == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		val := reflect.ValueOf(v)
		if !val.Type().AssignableTo(elem.Type()) {
			if !val.Type().ConvertibleTo(elem.Type()) {
				return fmt.Errorf("scan: cannot assign %T to %s", v, elem.Type())
			}
			val = val.Convert(elem.Type())
		}
		elem.Set(val)
	}
	return nil
}

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 { return t.rowsAffected }

// fakeRedis implements RedisClient for the auth tests.
type fakeRedis struct {
	setErr    error
	setKey    string
	setValue  string
	setTTL    time.Duration
	getValue  string
	getErr    error
	expireErr error
	delErr    error
	delKeys   []string
}

func (r *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	r.setKey = key
	r.setValue = fmt.Sprint(value)
	r.setTTL = expiration
	return r.setErr
}

func (r *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	return r.getValue, r.getErr
}

func (r *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return r.expireErr
}

func (r *fakeRedis) Del(ctx context.Context, keys ...string) error {
	r.delKeys = append(r.delKeys, keys...)
	return r.delErr
}

// fakeFriendGraph implements FriendGraph for the share tests.
type fakeFriendGraph struct {
	friends     map[uuid.UUID]bool
	friendsErr  error
	listResult  []models.Friend
	listErr     error
}

func (g *fakeFriendGraph) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if g.friendsErr != nil {
		return false, g.friendsErr
	}
	return g.friends[b], nil
}

func (g *fakeFriendGraph) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	return g.listResult, g.listErr
}

// fakeAccess implements both access resolver interfaces.
type fakeAccess struct {
	canRead bool
	err     error
	calls   int
}

func (a *fakeAccess) CanReadPin(ctx context.Context, userID, pinID uuid.UUID) (bool, error) {
	a.calls++
	return a.canRead, a.err
}

func (a *fakeAccess) CanReadCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	a.calls++
	return a.canRead, a.err
}
