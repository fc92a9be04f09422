package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.viam.com/test"
)

type jointLimit struct {
	Lower float64
	Upper float64
	name  string
}

func newBufferLogger(name string, level Level) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewBlankLogger(name)
	logger.SetLevel(level)
	logger.AddAppender(NewWriterAppender(&buf))
	return logger, &buf
}

func splitLine(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	return strings.Split(strings.TrimSuffix(line, "\n"), "\t")
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, buf := newBufferLogger("planner", DEBUG)

	logger.Info("connected")
	parts := splitLine(t, buf)
	test.That(t, len(parts), test.ShouldEqual, 5)
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "planner")
	test.That(t, parts[3], test.ShouldStartWith, "logging/impl_test.go:")
	test.That(t, parts[4], test.ShouldEqual, "connected")

	logger.Debugf("joint %d at %.1f", 3, 1.5)
	parts = splitLine(t, buf)
	test.That(t, parts[1], test.ShouldEqual, "DEBUG")
	test.That(t, parts[4], test.ShouldEqual, "joint 3 at 1.5")
}

func TestStructuredFields(t *testing.T) {
	logger, buf := newBufferLogger("", DEBUG)

	logger.Warnw("limit exceeded", "joint", "elbow_joint", "limit", jointLimit{Lower: -1, Upper: 1, name: "hidden"})
	parts := splitLine(t, buf)
	test.That(t, parts[1], test.ShouldEqual, "WARN")
	test.That(t, parts[3], test.ShouldEqual, "limit exceeded")

	fields := map[string]interface{}{}
	test.That(t, json.Unmarshal([]byte(parts[4]), &fields), test.ShouldBeNil)
	test.That(t, fields["joint"], test.ShouldEqual, "elbow_joint")
	test.That(t, fields["limit"], test.ShouldResemble, map[string]interface{}{"Lower": -1.0, "Upper": 1.0})

	logger.Errorw("odd", "dangling")
	parts = splitLine(t, buf)
	test.That(t, parts[4], test.ShouldContainSubstring, "unpaired log key")
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("scene", WARN)
	logger.Debug("hidden")
	logger.Info("hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.Error("shown")
	parts := splitLine(t, buf)
	test.That(t, parts[len(parts)-1], test.ShouldEqual, "shown")

	logger.CDebugw(context.Background(), "hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)
	logger.CDebugw(EnableDebugMode(context.Background(), ""), "forced")
	parts = splitLine(t, buf)
	test.That(t, parts[len(parts)-1], test.ShouldEqual, "forced")
}

func TestSublogger(t *testing.T) {
	logger, buf := newBufferLogger("fab", INFO)
	sub := logger.Sublogger("ros")
	sub.Info("hi")
	parts := splitLine(t, buf)
	test.That(t, parts[2], test.ShouldEqual, "fab.ros")
	test.That(t, sub.GetLevel(), test.ShouldEqual, INFO)

	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, INFO)
}

func TestLevelParsing(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.out)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var level Level
	test.That(t, json.Unmarshal([]byte(`"error"`), &level), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, ERROR)
	data, err := json.Marshal(WARN)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `"warn"`)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("published", "topic", "/collision_object")
	test.That(t, logs.FilterMessage("published").Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].ContextMap()["topic"], test.ShouldEqual, "/collision_object")
}
