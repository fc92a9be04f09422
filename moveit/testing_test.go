package moveit

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	gotestutils "go.viam.com/utils/testutils"

	"go.viam.com/fab/testutils"
)

func errorsAs(err error, target interface{}) bool {
	return errors.As(err, target)
}

// waitForPublished waits until n messages were published on topic and decodes them into out, which
// must point to a slice.
func waitForPublished(t *testing.T, fr *testutils.FakeRosbridge, topic string, n int, out interface{}) {
	t.Helper()
	gotestutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, len(fr.Published(topic)), test.ShouldBeGreaterThanOrEqualTo, n)
	})
	raw, err := json.Marshal(fr.Published(topic))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, json.Unmarshal(raw, out), test.ShouldBeNil)
}
