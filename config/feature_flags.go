package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles. The tracker is a single-user
// application, so there is no per-user targeting or rollout logic:
// a flag is globally on or off, with env overrides for debugging.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Tracker Features ===
	FeatureTrackerAchievements = "tracker.achievements" // Achievement unlocks
	FeatureTrackerHeatmap      = "tracker.heatmap"      // 13-week activity heatmap

	// === Pomodoro Features ===
	FeaturePomodoroTimer = "pomodoro.timer" // Focus timer

	// === Notification Features ===
	FeatureNotifyAchievements = "notify.achievements" // Unlock toasts
	FeatureNotifyPomodoro     = "notify.pomodoro"     // Completion toasts

	// === Export Features ===
	FeatureExportReport = "export.report" // Plain-text report

	// === Experimental Features ===
	FeatureExperimentalEventMirror = "experimental.event_mirror" // Redis pub/sub mirror
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureTrackerAchievements] = &Feature{
		Name:        FeatureTrackerAchievements,
		Description: "Unlock achievements on logged progress",
		Enabled:     true,
	}

	ff.features[FeatureTrackerHeatmap] = &Feature{
		Name:        FeatureTrackerHeatmap,
		Description: "Activity heatmap in analytics",
		Enabled:     true,
	}

	ff.features[FeaturePomodoroTimer] = &Feature{
		Name:        FeaturePomodoroTimer,
		Description: "Pomodoro focus timer",
		Enabled:     true,
	}

	ff.features[FeatureNotifyAchievements] = &Feature{
		Name:        FeatureNotifyAchievements,
		Description: "Toast on achievement unlock",
		Enabled:     true,
	}

	ff.features[FeatureNotifyPomodoro] = &Feature{
		Name:        FeatureNotifyPomodoro,
		Description: "Toast on pomodoro completion",
		Enabled:     true,
	}

	ff.features[FeatureExportReport] = &Feature{
		Name:        FeatureExportReport,
		Description: "Plain-text study report export",
		Enabled:     true,
	}

	ff.features[FeatureExperimentalEventMirror] = &Feature{
		Name:        FeatureExperimentalEventMirror,
		Description: "Mirror domain events to Redis pub/sub",
		Enabled:     false,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_POMODORO_TIMER=false
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "pomodoro.timer" -> "FEATURE_POMODORO_TIMER"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}
	return feature.Enabled
}

// EnableFeature enables a feature.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.setEnabled(featureName, true)
}

// DisableFeature disables a feature.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.setEnabled(featureName, false)
}

func (ff *FeatureFlags) setEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
