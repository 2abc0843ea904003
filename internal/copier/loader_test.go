package copier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgbulk/internal/checksum"
	"github.com/vvka-141/pgbulk/internal/logging"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

type mockSession struct {
	beginErr  error
	execErr   error
	copyErr   error
	commitErr error

	serverRows int64 // -1 means echo the streamed line count

	executed   []string
	copySQL    string
	payload    bytes.Buffer
	begun      bool
	committed  bool
	rolledBack bool
	closed     bool
}

func (s *mockSession) Begin(ctx context.Context) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	s.begun = true
	return nil
}

func (s *mockSession) Exec(ctx context.Context, sql string) error {
	if s.execErr != nil {
		return s.execErr
	}
	s.executed = append(s.executed, sql)
	return nil
}

func (s *mockSession) CopyFrom(ctx context.Context, r io.Reader, copySQL string) (int64, error) {
	if s.copyErr != nil {
		return 0, s.copyErr
	}
	s.copySQL = copySQL
	if _, err := io.Copy(&s.payload, r); err != nil {
		return 0, err
	}
	if s.serverRows >= 0 {
		return s.serverRows, nil
	}
	return int64(bytes.Count(s.payload.Bytes(), []byte{'\n'})), nil
}

func (s *mockSession) Commit(ctx context.Context) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.committed = true
	return nil
}

func (s *mockSession) Rollback(ctx context.Context) error {
	s.rolledBack = true
	return nil
}

func (s *mockSession) Close() { s.closed = true }

type mockOpener struct {
	session *mockSession
	openErr error
}

func (o *mockOpener) OpenSession(ctx context.Context) (pgbulk.CopySession, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	return o.session, nil
}

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part_01.tbl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestLoader(opener pgbulk.SessionOpener, opts ...Option) *Loader {
	return NewLoader(opener, logging.NewNullLogger(), checksum.New(), opts...)
}

func TestLoad_Success(t *testing.T) {
	session := &mockSession{serverRows: -1}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "1|POINT(0 0)|2024-01-01|42\n2|POINT(1 1)|2024-01-02|43\n")

	result, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Rows)
	assert.Positive(t, result.Duration)
	assert.Equal(t, checksum.New().Calculate([]byte("1|POINT(0 0)|2024-01-01|42\n2|POINT(1 1)|2024-01-02|43\n")), result.Checksum)

	require.Len(t, session.executed, 1)
	assert.Equal(t, `LOCK TABLE "public"."trips_wa" IN SHARE UPDATE EXCLUSIVE MODE`, session.executed[0])
	assert.Equal(t, `COPY "public"."trips_wa_007" ("fid", "geom", "dtg", "taxi_id") FROM STDIN WITH (FORMAT text, DELIMITER '|', NULL '')`, session.copySQL)

	assert.True(t, session.committed)
	assert.False(t, session.rolledBack)
	assert.True(t, session.closed)
}

func TestLoad_MissingTrailingNewline(t *testing.T) {
	session := &mockSession{serverRows: -1}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "a|1\nb|2\nc|3")

	result, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Rows)
	assert.Equal(t, "a|1\nb|2\nc|3\n", session.payload.String())
}

func TestLoad_EmptyFile(t *testing.T) {
	session := &mockSession{serverRows: -1}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "")

	result, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Rows)
	assert.Empty(t, session.payload.String())
	assert.True(t, session.committed)
}

func TestLoad_FileMissing(t *testing.T) {
	loader := newTestLoader(&mockOpener{session: &mockSession{serverRows: -1}})

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.tbl"), "trips_wa_007", "trips_wa")
	assert.ErrorIs(t, err, pgbulk.ErrTransfer)
}

func TestLoad_OpenSessionFails(t *testing.T) {
	loader := newTestLoader(&mockOpener{openErr: fmt.Errorf("pool exhausted")})
	path := writeDataFile(t, "a|1\n")

	_, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	assert.ErrorIs(t, err, pgbulk.ErrTransfer)
}

func TestLoad_BeginFails(t *testing.T) {
	session := &mockSession{serverRows: -1, beginErr: fmt.Errorf("boom")}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "a|1\n")

	_, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	assert.ErrorIs(t, err, pgbulk.ErrTransfer)
	assert.True(t, session.closed)
}

func TestLoad_LockFails(t *testing.T) {
	session := &mockSession{serverRows: -1, execErr: fmt.Errorf("lock timeout")}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "a|1\n")

	_, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	assert.ErrorIs(t, err, pgbulk.ErrTransfer)
	assert.True(t, session.rolledBack)
	assert.False(t, session.committed)
}

func TestLoad_CopyFails(t *testing.T) {
	session := &mockSession{serverRows: -1, copyErr: fmt.Errorf("malformed row")}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "a|1\n")

	_, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	assert.ErrorIs(t, err, pgbulk.ErrTransfer)
	assert.True(t, session.rolledBack)
}

func TestLoad_CommitFails(t *testing.T) {
	session := &mockSession{serverRows: -1, commitErr: fmt.Errorf("connection reset")}
	loader := newTestLoader(&mockOpener{session: session})
	path := writeDataFile(t, "a|1\n")

	_, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	assert.ErrorIs(t, err, pgbulk.ErrTransfer)
	assert.True(t, session.rolledBack)
}

func TestLoad_ServerRowMismatchWarns(t *testing.T) {
	var buf bytes.Buffer
	session := &mockSession{serverRows: 99}
	loader := NewLoader(&mockOpener{session: session}, logging.NewConsoleLoggerWithWriter(false, &buf), checksum.New())
	path := writeDataFile(t, "a|1\nb|2\n")

	result, err := loader.Load(context.Background(), path, "trips_wa_007", "trips_wa")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Rows)
	assert.Contains(t, buf.String(), "[WARN]")
}

func TestLoad_CustomFormat(t *testing.T) {
	session := &mockSession{serverRows: -1}
	loader := newTestLoader(&mockOpener{session: session},
		WithSchema("geo"),
		WithColumns([]string{"id", "payload"}),
		WithFormat(",", "\\N"))
	path := writeDataFile(t, "1,x\n")

	_, err := loader.Load(context.Background(), path, "events_wa_001", "events_wa")
	require.NoError(t, err)

	assert.Equal(t, `LOCK TABLE "geo"."events_wa" IN SHARE UPDATE EXCLUSIVE MODE`, session.executed[0])
	assert.Equal(t, `COPY "geo"."events_wa_001" ("id", "payload") FROM STDIN WITH (FORMAT text, DELIMITER ',', NULL '\N')`, session.copySQL)
}

func TestNewLoader_PanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() { NewLoader(nil, logging.NewNullLogger(), checksum.New()) })
	assert.Panics(t, func() { NewLoader(&mockOpener{}, nil, checksum.New()) })
	assert.Panics(t, func() { NewLoader(&mockOpener{}, logging.NewNullLogger(), nil) })
}
