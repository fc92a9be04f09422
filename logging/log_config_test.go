package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func verifySetLevels(registry *Registry, expectedMatches map[string]string) bool {
	for name, level := range expectedMatches {
		logger, ok := registry.LoggerNamed(name)
		if !ok || !strings.EqualFold(level, logger.GetLevel().String()) {
			return false
		}
	}
	return true
}

func createTestRegistry(loggerNames []string) *Registry {
	registry := NewRegistry()
	for _, name := range loggerNames {
		registry.NewLogger(name, NewWriterAppender(&strings.Builder{}))
	}
	return registry
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		pattern string
		isValid bool
	}{
		{"fab.moveit", true},
		{"fab.moveit.*", true},
		{"fab.*.moveit", true},
		{"fab.*.*", true},
		{"*.ros", true},
		{"*", true},
		{"fab-cli.ros_client", true},

		{"fab..moveit", false},
		{"fab.moveit.", false},
		{".fab.moveit", false},
		{"fab.moveit.**", false},
		{"_.fab.moveit", false},
		{"fab.-", false},
		{"fab moveit", false},
	} {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, ValidatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestUpdateLoggerRegistry(t *testing.T) {
	for _, tc := range []struct {
		name            string
		loggerConfig    []LoggerPatternConfig
		loggerNames     []string
		expectedMatches map[string]string
	}{
		{
			name:         "exact",
			loggerConfig: []LoggerPatternConfig{{Pattern: "fab.moveit", Level: "WARN"}},
			loggerNames:  []string{"fab.moveit", "fab.moveit.trajectory", "fab.ros"},
			expectedMatches: map[string]string{
				"fab.moveit":            "WARN",
				"fab.moveit.trajectory": "INFO",
				"fab.ros":               "INFO",
			},
		},
		{
			name:         "wildcard suffix",
			loggerConfig: []LoggerPatternConfig{{Pattern: "fab.*", Level: "DEBUG"}},
			loggerNames:  []string{"fab.moveit", "fab.ros.action", "other"},
			expectedMatches: map[string]string{
				"fab.moveit":     "DEBUG",
				"fab.ros.action": "DEBUG",
				"other":          "INFO",
			},
		},
		{
			name:         "wildcard middle",
			loggerConfig: []LoggerPatternConfig{{Pattern: "fab.*.action", Level: "ERROR"}},
			loggerNames:  []string{"fab.ros.action", "fab.moveit.action", "fab.ros.client"},
			expectedMatches: map[string]string{
				"fab.ros.action":    "ERROR",
				"fab.moveit.action": "ERROR",
				"fab.ros.client":    "INFO",
			},
		},
		{
			name: "later pattern wins",
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "fab.*", Level: "DEBUG"},
				{Pattern: "fab.moveit", Level: "WARN"},
			},
			loggerNames:     []string{"fab.moveit"},
			expectedMatches: map[string]string{"fab.moveit": "WARN"},
		},
		{
			name:            "invalid pattern skipped",
			loggerConfig:    []LoggerPatternConfig{{Pattern: "_.*.moveit", Level: "DEBUG"}},
			loggerNames:     []string{"fab.moveit"},
			expectedMatches: map[string]string{"fab.moveit": "INFO"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			registry := createTestRegistry(tc.loggerNames)
			err := registry.Update(tc.loggerConfig, NewTestLogger(t))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, verifySetLevels(registry, tc.expectedMatches), test.ShouldBeTrue)
		})
	}

	t.Run("bad level", func(t *testing.T) {
		registry := createTestRegistry([]string{"fab"})
		err := registry.Update([]LoggerPatternConfig{{Pattern: "fab", Level: "loud"}}, NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "unknown log level")
	})
}

func TestRegistrySubloggers(t *testing.T) {
	registry := NewRegistry()
	test.That(t, registry.Update([]LoggerPatternConfig{{Pattern: "fab.moveit", Level: "error"}}, NewTestLogger(t)), test.ShouldBeNil)

	root := registry.NewLogger("fab", NewWriterAppender(&strings.Builder{}))
	root.SetLevel(DEBUG)

	moveit := root.Sublogger("moveit")
	test.That(t, moveit.GetLevel(), test.ShouldEqual, ERROR)
	ros := root.Sublogger("ros")
	test.That(t, ros.GetLevel(), test.ShouldEqual, DEBUG)

	again := root.Sublogger("moveit")
	test.That(t, again, test.ShouldEqual, moveit)
	test.That(t, registry.RegisteredLoggerNames(), test.ShouldResemble, []string{"fab", "fab.moveit", "fab.ros"})

	unregistered := NewBlankLogger("plain").Sublogger("child")
	_, ok := registry.LoggerNamed("plain.child")
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, unregistered.GetLevel(), test.ShouldEqual, DEBUG)
}

func TestFileAppender(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "fab.log")
	appender := NewFileAppender(filename, 1, 1)

	logger := NewBlankLogger("fab")
	logger.AddAppender(appender)
	logger.Infow("planned", "points", 12)
	test.That(t, appender.Close(), test.ShouldBeNil)

	contents, err := os.ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	line := strings.TrimSuffix(string(contents), "\n")
	parts := strings.Split(line, "\t")
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "fab")
	test.That(t, parts[len(parts)-2], test.ShouldEqual, "planned")
	test.That(t, parts[len(parts)-1], test.ShouldEqual, `{"points":12}`)
}
