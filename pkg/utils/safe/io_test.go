package safe_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/utils/safe"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

type readCloser struct {
	io.Reader
	closer
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	safe.Close(ctx, nil)

	c := &closer{err: errors.New("already closed")}
	safe.Close(ctx, c)
	gt.Bool(t, c.closed).True()
}

func TestDrain(t *testing.T) {
	r := &readCloser{Reader: strings.NewReader("remaining body")}
	safe.Drain(context.Background(), r)

	gt.Bool(t, r.closed).True()
	rest, err := io.ReadAll(r.Reader)
	gt.NoError(t, err).Required()
	gt.Array(t, rest).Length(0)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	safe.EncodeJSON(context.Background(), &buf, map[string]int{"count": 3})
	gt.Value(t, buf.String()).Equal("{\"count\":3}\n")
}
