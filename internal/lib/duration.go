package lib

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration and allows itself to be unmarshalled in to from JSON or
// YAML, either as a number of nanoseconds or a string such as "30s".
// Copied from https://biscuit.ninja/posts/go-unmarshalling-json-into-time-duration/.
type Duration struct {
	time.Duration
}

// DurationFrom gets around the "struct literal uses unkeyed fields" warning if you try
// to declare a Duration literal such as lib.Duration{time.Second}.
func DurationFrom(t time.Duration) Duration {
	return Duration{t}
}

func (duration *Duration) set(value interface{}) error {
	var err error
	switch value := value.(type) {
	case float64:
		duration.Duration = time.Duration(value)
	case int:
		duration.Duration = time.Duration(value)
	case string:
		duration.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid duration: %#v", value)
	}
	return nil
}

func (duration *Duration) UnmarshalJSON(b []byte) error {
	var unmarshalledJson interface{}

	err := json.Unmarshal(b, &unmarshalledJson)
	if err != nil {
		return err
	}

	return duration.set(unmarshalledJson)
}

func (duration *Duration) UnmarshalYAML(node *yaml.Node) error {
	var unmarshalledYaml interface{}

	if err := node.Decode(&unmarshalledYaml); err != nil {
		return err
	}

	return duration.set(unmarshalledYaml)
}

func (duration Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(duration.String())
}
