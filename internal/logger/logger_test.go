package logger

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	entry := WithComponent("test-component")
	if entry == nil {
		t.Fatal("expected non-nil entry")
	}

	if val, ok := entry.Data["component"]; !ok {
		t.Error("expected component field to be set")
	} else if val != "test-component" {
		t.Errorf("expected component 'test-component', got '%v'", val)
	}
}

func TestWithResource(t *testing.T) {
	entry := WithResource("loader", "footer:quick_links")

	if entry.Data["component"] != "loader" {
		t.Errorf("expected component 'loader', got '%v'", entry.Data["component"])
	}
	if entry.Data["resource"] != "footer:quick_links" {
		t.Errorf("expected resource 'footer:quick_links', got '%v'", entry.Data["resource"])
	}
}

func TestLoggerInit(t *testing.T) {
	if Logger == nil {
		t.Fatal("expected Logger to be initialized")
	}
	if Logger.Out != os.Stdout {
		t.Error("expected Logger output to be os.Stdout")
	}
}

func TestSetLevel(t *testing.T) {
	origLevel := Logger.GetLevel()
	defer Logger.SetLevel(origLevel)

	tests := []struct {
		name          string
		value         string
		expectedLevel logrus.Level
		wantErr       bool
	}{
		{"debug level", "debug", logrus.DebugLevel, false},
		{"warn level", "warn", logrus.WarnLevel, false},
		{"uppercase with spaces", " ERROR ", logrus.ErrorLevel, false},
		{"invalid level keeps current", "invalid", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger.SetLevel(logrus.InfoLevel)

			got, err := SetLevel(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.expectedLevel || Logger.GetLevel() != tt.expectedLevel {
				t.Errorf("expected level %v, got %v (logger %v)", tt.expectedLevel, got, Logger.GetLevel())
			}
		})
	}
}

func TestWithComponentMultiple(t *testing.T) {
	entry1 := WithComponent("component-a")
	entry2 := WithComponent("component-b")

	if entry1.Data["component"] == entry2.Data["component"] {
		t.Error("expected different component values for different entries")
	}
}
