package stage

// Health summarizes the readiness of a run stage or one of its dependencies.
type Health struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}

// AllReady reports whether every check passed.
func AllReady(checks []Health) bool {
	for _, check := range checks {
		if !check.Ready {
			return false
		}
	}
	return true
}
