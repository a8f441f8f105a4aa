package try_test

import (
	"errors"
	"testing"

	"github.com/openadmit/openadmit/pkg/utils/try"
)

type fakeFataler struct {
	called []any
}

func (f *fakeFataler) Fatal(args ...any) {
	f.called = append(f.called, args...)
}

func TestTo(t *testing.T) {
	t.Run("an ok pair yields its value", func(t *testing.T) {
		testee := try.To(42, nil)

		if v, err := testee.Get(); v != 42 || err != nil {
			t.Errorf("unmatch: (value, err) = (%d, %v)", v, err)
		}
		if v := testee.OrDefault(0); v != 42 {
			t.Errorf("unmatch: %d", v)
		}

		ftl := &fakeFataler{}
		if v := testee.OrFatal(ftl); v != 42 {
			t.Errorf("unmatch: %d", v)
		}
		if len(ftl.called) != 0 {
			t.Error("Fatal should not be called")
		}
	})

	t.Run("a failed pair yields the error", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		testee := try.To(0, expectedErr)

		if _, err := testee.Get(); !errors.Is(err, expectedErr) {
			t.Errorf("unmatch: error: %v", err)
		}
		if v := testee.OrDefault(7); v != 7 {
			t.Errorf("unmatch: %d", v)
		}

		ftl := &fakeFataler{}
		testee.OrFatal(ftl)
		if len(ftl.called) != 1 || !errors.Is(ftl.called[0].(error), expectedErr) {
			t.Errorf("Fatal should be called with the error: %v", ftl.called)
		}
	})
}
